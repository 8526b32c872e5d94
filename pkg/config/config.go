package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del nodo (lectura vía Viper desde env y
// opcionalmente archivo). Cada componente recibe su sub-struct explícito en
// el constructor; no hay singletons mutables de proceso.
type Config struct {
	App     AppConfig
	DB      DBConfig
	Monitor MonitorConfig
	Order   OrderConfig
	StockMS HTTPConfig
	OrderMS HTTPConfig
}

// AppConfig configuración general del nodo.
type AppConfig struct {
	Env        string // development, staging, production
	HospitalID string // identidad del nodo (ej. Hospital-C)
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido,
// si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// MonitorConfig configuración del loop de monitoreo y sus dos canales de envío.
type MonitorConfig struct {
	ProductCode  string
	Threshold    float64       // días de cobertura; ruptura estricta por debajo
	TickInterval time.Duration // intervalo del loop (10s en comportamiento de referencia)
	MaxAttempts  int           // reintentos del canal RPC
	SOAPURL      string
	SOAPAction   string
	SOAPTimeout  time.Duration
	EventURL     string
	EventTimeout time.Duration // deadline del canal de eventos (30s de referencia)
}

// OrderConfig parámetros con los que el servicio de pedidos construye la
// orden disparada por una actualización de stock bajo umbral.
type OrderConfig struct {
	WarehouseID   string
	OrderQuantity int
	Priority      string
	DeliveryDays  int
}

// HTTPConfig configuración de un servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde
// archivo .env). Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:        getString(v, "APP_ENV", "development"),
			HospitalID: getString(v, "HOSPITAL_ID", "Hospital-C"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", "postgres"),
			DBName:      getString(v, "DB_NAME", "hospital_db"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Monitor: MonitorConfig{
			ProductCode:  getString(v, "PRODUCT_CODE", "PHYSIO-SALINE-500ML"),
			Threshold:    getFloat(v, "STOCK_THRESHOLD_DAYS", 2.0),
			TickInterval: getDuration(v, "MONITOR_TICK_INTERVAL", 10*time.Second),
			MaxAttempts:  getInt(v, "SOAP_MAX_ATTEMPTS", 3),
			SOAPURL:      getString(v, "SOAP_STOCK_UPDATE_URL", "http://localhost:8082/StockUpdateService"),
			SOAPAction:   getString(v, "SOAP_ACTION", "http://hospital-supply-chain.example.com/soap/stock/StockUpdate"),
			SOAPTimeout:  getDuration(v, "SOAP_TIMEOUT", 30*time.Second),
			EventURL:     getString(v, "EVENT_PUBLISH_URL", "http://localhost:8081/api/events/publish"),
			EventTimeout: getDuration(v, "EVENT_TIMEOUT", 30*time.Second),
		},
		Order: OrderConfig{
			WarehouseID:   getString(v, "ORDER_WAREHOUSE_ID", "WH-CENTRAL"),
			OrderQuantity: getInt(v, "ORDER_QUANTITY", 500),
			Priority:      getString(v, "ORDER_PRIORITY", "HIGH"),
			DeliveryDays:  getInt(v, "ORDER_DELIVERY_DAYS", 2),
		},
		StockMS: HTTPConfig{
			Host: getString(v, "STOCKMS_HOST", "0.0.0.0"),
			Port: getInt(v, "STOCKMS_PORT", 8081),
		},
		OrderMS: HTTPConfig{
			Host: getString(v, "ORDERMS_HOST", "0.0.0.0"),
			Port: getInt(v, "ORDERMS_PORT", 8082),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			f, _ := strconv.ParseFloat(v.GetString(key), 64)
			return f
		default:
			return v.GetFloat64(key)
		}
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if v.IsSet(key) {
		if d, err := time.ParseDuration(v.GetString(key)); err == nil {
			return d
		}
	}
	return def
}
