package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for a retailfact run. Raw inputs
// come either from local files (--sales-file/--products-file) or from an
// S3-compatible bucket; the two modes are mutually exclusive per run.
type Config struct {
	DSN       string
	LogFormat string // "text" or "json"

	SalesFile    string
	ProductsFile string
	OutFile      string

	S3 S3Config

	WriteParquet  bool
	SkipWarehouse bool
}

// S3Config describes the object-store layout of the raw and cleansed zones.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`

	Bucket         string `yaml:"bucket"`
	RawFolder      string `yaml:"raw_folder"`
	CleansedFolder string `yaml:"cleansed_folder"`
	SalesKey       string `yaml:"sales_key"`
	ProductsKey    string `yaml:"products_key"`
	ProcessedKey   string `yaml:"processed_sales_key"`
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	S3 S3Config `yaml:"s3"`
}

// LoadEnvFile loads a .env file into the process environment when the file
// exists. Missing files are not an error: env configuration is optional.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Credentials given in the environment win over file values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.S3 = yc.S3
	c.applyEnv()
	c.applyDefaults()
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		c.S3.AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		c.S3.SecretKey = v
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		c.S3.Endpoint = v
	}
}

func (c *Config) applyDefaults() {
	if c.S3.RawFolder == "" {
		c.S3.RawFolder = "retail-data/"
	}
	if c.S3.CleansedFolder == "" {
		c.S3.CleansedFolder = "cleansed-data/"
	}
	if c.S3.SalesKey == "" {
		c.S3.SalesKey = "sales_data.csv"
	}
	if c.S3.ProductsKey == "" {
		c.S3.ProductsKey = "product_data.json"
	}
	if c.S3.ProcessedKey == "" {
		c.S3.ProcessedKey = "sales_clean.csv"
	}
}

// UseObjectStore reports whether inputs come from the S3-compatible store
// rather than local files.
func (c *Config) UseObjectStore() bool {
	return c.S3.Endpoint != ""
}

// SalesObjectKey is the full object key of the raw sales file.
func (c *Config) SalesObjectKey() string {
	return joinKey(c.S3.RawFolder, c.S3.SalesKey)
}

// ProductsObjectKey is the full object key of the raw products file.
func (c *Config) ProductsObjectKey() string {
	return joinKey(c.S3.RawFolder, c.S3.ProductsKey)
}

// ProcessedObjectKey is the full object key of the cleansed output file.
func (c *Config) ProcessedObjectKey() string {
	return joinKey(c.S3.CleansedFolder, c.S3.ProcessedKey)
}

func joinKey(folder, key string) string {
	folder = strings.Trim(folder, "/")
	key = strings.TrimPrefix(key, "/")
	if folder == "" {
		return key
	}
	return folder + "/" + key
}

// Validate checks that a usable input source is configured.
func (c *Config) Validate() error {
	if c.UseObjectStore() {
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required when s3.endpoint is set")
		}
		if c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			return fmt.Errorf("S3 credentials are required (s3.access_key/s3.secret_key or S3_ACCESS_KEY/S3_SECRET_KEY)")
		}
		return nil
	}
	if c.SalesFile == "" || c.ProductsFile == "" {
		return fmt.Errorf("--sales-file and --products-file are required without an object store")
	}
	for _, path := range []string{c.SalesFile, c.ProductsFile} {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("file not accessible: %w", err)
		}
	}
	return nil
}

// ValidateWithDSN checks inputs plus the warehouse connection string.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.SkipWarehouse && c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required (or pass --skip-warehouse)")
	}
	return nil
}
