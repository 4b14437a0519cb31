package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	Storage StorageConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Issuer  IssuerConfig
	Tax     TaxConfig
	PDF     PDFConfig
	GST     GSTConfig
	Tally   TallyConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
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

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
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

// StorageConfig elige el adaptador de persistencia.
type StorageConfig struct {
	Driver      string // postgres | memory
	AutoMigrate bool
}

// JWTConfig configuración de JWT. Secret vacío desactiva la autenticación de operador.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IssuerConfig datos fijos del emisor impresos en cada factura.
type IssuerConfig struct {
	LegalName            string
	GSTIN                string
	OfficeAddress        string
	Contact              string
	BankDetails          string
	FooterNote           string
	SignatureCaption     string
	DefaultSignaturePath string
}

// TaxConfig tasas por defecto (porcentaje) y etiquetas de los dos componentes del GST.
type TaxConfig struct {
	RateA  string
	RateB  string
	LabelA string
	LabelB string
}

// PDFConfig opciones de maquetación del documento.
type PDFConfig struct {
	SignaturePolicy    string // abort | blank | default
	ThousandsSeparator bool
	NumberLocale       string
	OutputDir          string
	DateLayout         string
	SignatureDir       string // firmas por factura, relativas a este directorio
}

// GSTConfig reglas de validación del GSTIN.
type GSTConfig struct {
	StrictChecksum bool
}

// TallyConfig cuentas usadas al exportar vouchers.
type TallyConfig struct {
	SalesLedger string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, TAX_RATE_A, PDF_SIGNATURE_POLICY, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "invorya-gst"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "invorya_gst"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getString(v, "STORAGE_DRIVER", "postgres")),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "invorya-gst"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Issuer: IssuerConfig{
			LegalName:            getString(v, "ISSUER_LEGAL_NAME", ""),
			GSTIN:                getString(v, "ISSUER_GSTIN", ""),
			OfficeAddress:        getString(v, "ISSUER_OFFICE_ADDRESS", ""),
			Contact:              getString(v, "ISSUER_CONTACT", ""),
			BankDetails:          getString(v, "ISSUER_BANK_DETAILS", ""),
			FooterNote:           getString(v, "ISSUER_FOOTER_NOTE", ""),
			SignatureCaption:     getString(v, "ISSUER_SIGNATURE_CAPTION", "Authorized Signatory"),
			DefaultSignaturePath: getString(v, "ISSUER_SIGNATURE_PATH", "assets/signature.png"),
		},
		Tax: TaxConfig{
			RateA:  getString(v, "TAX_RATE_A", "9"),
			RateB:  getString(v, "TAX_RATE_B", "9"),
			LabelA: getString(v, "TAX_LABEL_A", "SGST"),
			LabelB: getString(v, "TAX_LABEL_B", "CGST"),
		},
		PDF: PDFConfig{
			SignaturePolicy:    strings.ToLower(getString(v, "PDF_SIGNATURE_POLICY", "default")),
			ThousandsSeparator: getBool(v, "PDF_THOUSANDS_SEPARATOR", true),
			NumberLocale:       getString(v, "PDF_NUMBER_LOCALE", "en"),
			OutputDir:          getString(v, "PDF_OUTPUT_DIR", "invoices"),
			DateLayout:         getString(v, "PDF_DATE_LAYOUT", "02/01/2006"),
			SignatureDir:       getString(v, "PDF_SIGNATURE_DIR", "assets/signatures"),
		},
		GST: GSTConfig{
			StrictChecksum: getBool(v, "GST_STRICT_CHECKSUM", false),
		},
		Tally: TallyConfig{
			SalesLedger: getString(v, "TALLY_SALES_LEDGER", "Sales"),
		},
	}

	switch cfg.Storage.Driver {
	case "postgres", "memory":
	default:
		return nil, fmt.Errorf("config: STORAGE_DRIVER desconocido %q (postgres | memory)", cfg.Storage.Driver)
	}
	switch cfg.PDF.SignaturePolicy {
	case "abort", "blank", "default":
	default:
		return nil, fmt.Errorf("config: PDF_SIGNATURE_POLICY desconocida %q (abort | blank | default)", cfg.PDF.SignaturePolicy)
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
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
