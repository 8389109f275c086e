package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_DB_PATH       = "pos.db"
	DEFAULT_TOLERANCE     = "0.01"
	DEFAULT_CUSNO_PREFIX  = `^GF?-?`
	DEFAULT_PLATFORM_NAME = "GRAB"
)

var ConfigStore atomic.Value

type DataSourceConfig struct {
	Path string `json:"path" envconfig:"RECON_DATA_SOURCE_PATH"`
}

type MatchingConfig struct {
	Tolerance            string   `json:"tolerance" envconfig:"RECON_MATCHING_TOLERANCE"`
	CustomerPrefix       string   `json:"customer_prefix" envconfig:"RECON_MATCHING_CUSTOMER_PREFIX"`
	ChargebackOrderTypes []string `json:"chargeback_order_types" envconfig:"RECON_MATCHING_CHARGEBACK_ORDER_TYPES"`
	Workers              int      `json:"workers" envconfig:"RECON_MATCHING_WORKERS"`
}

type Configuration struct {
	ProjectName string           `json:"project_name" envconfig:"RECON_PROJECT_NAME"`
	LogLevel    string           `json:"log_level" envconfig:"RECON_LOG_LEVEL"`
	DataSource  DataSourceConfig `json:"data_source"`
	Matching    MatchingConfig   `json:"matching"`
	WriteBack   bool             `json:"write_back" envconfig:"RECON_WRITE_BACK"`

	// SourceCustomerName restricts POS sales to those booked under the
	// platform's customer account. An explicit empty value disables it.
	SourceCustomerName *string `json:"source_customer_name" envconfig:"RECON_SOURCE_CUSTOMER_NAME"`

	tolerance      decimal.Decimal
	customerPrefix *regexp.Regexp
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("recon", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return nil
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded. Create a json file called reconciler.json or set RECON_* variables")
	}
	return c, nil
}

// Tolerance returns the parsed matching tolerance.
func (cnf *Configuration) Tolerance() decimal.Decimal {
	return cnf.tolerance
}

// SourceCustomer returns the POS customer name of platform orders.
func (cnf *Configuration) SourceCustomer() string {
	if cnf.SourceCustomerName == nil {
		return ""
	}
	return strings.TrimSpace(*cnf.SourceCustomerName)
}

// CustomerPrefix returns the compiled POS customer number prefix pattern.
func (cnf *Configuration) CustomerPrefix() *regexp.Regexp {
	return cnf.customerPrefix
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		cnf.ProjectName = "POS Reconciler"
	}

	cnf.DataSource.Path = strings.TrimSpace(cnf.DataSource.Path)
	if cnf.DataSource.Path == "" {
		cnf.DataSource.Path = DEFAULT_DB_PATH
		log.Printf("Warning: data source path not specified. Using default: %s", DEFAULT_DB_PATH)
	}

	if strings.TrimSpace(cnf.Matching.Tolerance) == "" {
		cnf.Matching.Tolerance = DEFAULT_TOLERANCE
	}
	tolerance, err := decimal.NewFromString(strings.TrimSpace(cnf.Matching.Tolerance))
	if err != nil {
		return fmt.Errorf("invalid matching tolerance %q: %w", cnf.Matching.Tolerance, err)
	}
	if tolerance.IsNegative() {
		return fmt.Errorf("matching tolerance must not be negative, got %s", tolerance)
	}
	cnf.tolerance = tolerance

	if cnf.Matching.CustomerPrefix == "" {
		cnf.Matching.CustomerPrefix = DEFAULT_CUSNO_PREFIX
	}
	prefix, err := regexp.Compile(cnf.Matching.CustomerPrefix)
	if err != nil {
		return fmt.Errorf("invalid customer prefix pattern %q: %w", cnf.Matching.CustomerPrefix, err)
	}
	cnf.customerPrefix = prefix

	if len(cnf.Matching.ChargebackOrderTypes) == 0 {
		cnf.Matching.ChargebackOrderTypes = []string{"Auto-Chargeback"}
	}

	if cnf.Matching.Workers < 1 {
		cnf.Matching.Workers = 1
	}

	if cnf.SourceCustomerName == nil {
		name := DEFAULT_PLATFORM_NAME
		cnf.SourceCustomerName = &name
	}

	if cnf.LogLevel != "" {
		level, err := logrus.ParseLevel(cnf.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cnf.LogLevel, err)
		}
		logrus.SetLevel(level)
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) error {
	if err := mockConfig.validateAndAddDefaults(); err != nil {
		return err
	}
	ConfigStore.Store(mockConfig)
	return nil
}

func logger() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetOutput(logrus.StandardLogger().Writer())
}
