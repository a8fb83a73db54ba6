package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time parses pool lifetime durations
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Strings for identifiers, secrets and URLs; ints
// for costs.
type Config struct {
    Env        string // application environment (e.g. "dev", "prod")
    Port       string // HTTP port to listen on
    DBUser     string // database username
    DBPass     string // database password (optional)
    DBHost     string // database host address
    DBPort     string // database port number
    DBName     string // database name
    JWTSecret  string // secret used to sign JWTs
    BcryptCost int    // bcrypt cost for password hashing

    DBMaxConns        int           // connection pool size (open and idle)
    DBConnMaxLifetime time.Duration // recycle age for pooled connections

    GatewayToken   string // payment gateway API credential
    GatewayBaseURL string // payment gateway API base URL
    PublicBaseURL  string // public base URL of this API, used for webhook callback construction
    StoreBaseURL   string // storefront base URL, used for buyer redirect back URLs
    Currency       string // ISO currency code for gateway charges

    UploadDir string // directory holding uploaded product images
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:        must("APP_ENV"),
        Port:       must("APP_PORT"),
        DBUser:     must("DB_USER"),
        DBPass:     os.Getenv("DB_PASS"), // empty allowed
        DBHost:     must("DB_HOST"),
        DBPort:     must("DB_PORT"),
        DBName:     must("DB_NAME"),
        JWTSecret:  must("JWT_SECRET"),
        BcryptCost: mustInt("BCRYPT_COST"),

        DBMaxConns:        envInt("DB_MAX_CONNS", 25),
        DBConnMaxLifetime: envDur("DB_CONN_MAX_LIFETIME", 30*time.Minute),

        GatewayToken:   must("GATEWAY_ACCESS_TOKEN"),
        GatewayBaseURL: getenv("GATEWAY_BASE_URL", "https://api.mercadopago.com"),
        PublicBaseURL:  must("PUBLIC_BASE_URL"),
        StoreBaseURL:   must("STORE_BASE_URL"),
        Currency:       getenv("CURRENCY", "ARS"),

        UploadDir: getenv("UPLOAD_DIR", "uploads"),
    }
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
