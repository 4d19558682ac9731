package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/muhammadolammi/skillbridge/internal/database"
	"github.com/muhammadolammi/skillbridge/internal/llm"
	"github.com/muhammadolammi/skillbridge/internal/resume"
)

type Config struct {
	Port      string
	LogLevel  string
	LogPretty bool
	DataDir   string

	// UseLocalCSV reads the jobs, mentors and users catalogs from DataDir
	// instead of the warehouse.
	UseLocalCSV bool

	Warehouse   database.WarehouseConfig
	Namespace   database.Namespace
	AllowCreate bool

	ServingEndpoint string
	ServingToken    string
	ServingModel    string
	Azure           llm.AzureConfig
	GoogleAPIKey    string
	GeminiModel     string

	RabbitMQURL string
	R2          resume.R2Config
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// loadConfig reads .env (if present) and the environment. Integrations whose
// settings are missing are left disabled.
func loadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:        getenv("PORT", "8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogPretty:   getenvBool("LOG_PRETTY", false),
		DataDir:     getenv("DATA_DIR", "data"),
		UseLocalCSV: getenvBool("USE_LOCAL_CSV", true),
		Namespace: database.Namespace{
			Catalog: getenv("DATABRICKS_CATALOG", ""),
			Schema:  getenv("DATABRICKS_SCHEMA", ""),
		},
		AllowCreate: getenvBool("DATABRICKS_ALLOW_SCHEMA_CREATE", false),

		ServingEndpoint: getenv("DATABRICKS_LLM_ENDPOINT", ""),
		ServingToken:    getenv("DATABRICKS_TOKEN", ""),
		ServingModel:    getenv("DATABRICKS_MODEL", llm.DefaultServingModel),
		Azure: llm.AzureConfig{
			Endpoint:   getenv("AZURE_ENDPOINT", ""),
			APIKey:     getenv("AZURE_API_KEY", ""),
			Deployment: getenv("AZURE_DEPLOYMENT_NAME", llm.DefaultAzureDeployment),
			APIVersion: getenv("AZURE_API_VERSION", llm.DefaultAzureAPIVersion),
		},
		GoogleAPIKey: getenv("GOOGLE_API_KEY", ""),
		GeminiModel:  getenv("GEMINI_MODEL", llm.DefaultGeminiModel),

		RabbitMQURL: getenv("RABBITMQ_URL", ""),
		R2: resume.R2Config{
			AccountID: getenv("R2_ACCCOUNT_ID", ""),
			Bucket:    getenv("R2_BUCKET", ""),
			AccessKey: getenv("R2_ACCESS_KEY", ""),
			SecretKey: getenv("R2_SECRET_KEY", ""),
		},
	}

	wh, err := warehouseConfig()
	if err != nil {
		return Config{}, err
	}
	cfg.Warehouse = wh
	if !cfg.UseLocalCSV && wh.Driver == "" {
		return Config{}, fmt.Errorf("USE_LOCAL_CSV=false needs a warehouse: set DATABRICKS_HOST, DB_URL or SQLITE_PATH")
	}
	return cfg, nil
}

// warehouseConfig picks the driver from WAREHOUSE_DRIVER or infers it from
// whichever connection settings are present. An empty Driver means no warehouse.
func warehouseConfig() (database.WarehouseConfig, error) {
	wh := database.WarehouseConfig{
		Driver:   strings.ToLower(getenv("WAREHOUSE_DRIVER", "")),
		Host:     strings.TrimPrefix(getenv("DATABRICKS_HOST", ""), "https://"),
		Token:    getenv("DATABRICKS_TOKEN", ""),
		HTTPPath: getenv("DATABRICKS_HTTP_PATH", getenv("DATABRICKS_SQL_ENDPOINT", "")),
	}
	if wh.HTTPPath == "" {
		if id := getenv("DATABRICKS_WAREHOUSE_ID", getenv("DATABRICKS_SQL_WAREHOUSE_ID", "")); id != "" {
			wh.HTTPPath = "/sql/1.0/warehouses/" + id
		}
	}

	if wh.Driver == "" {
		switch {
		case wh.Host != "":
			wh.Driver = "databricks"
		case os.Getenv("DB_URL") != "":
			wh.Driver = "postgres"
		case os.Getenv("SQLITE_PATH") != "":
			wh.Driver = "sqlite"
		}
	}

	switch wh.Driver {
	case "", "databricks":
	case "postgres":
		wh.DSN = getenv("DB_URL", "")
		if wh.DSN == "" {
			return wh, fmt.Errorf("empty DB_URL in environment")
		}
	case "sqlite":
		wh.DSN = getenv("SQLITE_PATH", "")
		if wh.DSN == "" {
			return wh, fmt.Errorf("empty SQLITE_PATH in environment")
		}
	default:
		return wh, fmt.Errorf("unsupported WAREHOUSE_DRIVER %q", wh.Driver)
	}
	return wh, nil
}
