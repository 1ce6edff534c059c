package config

// this holds the resolved configuration values from CLI
//
//nolint:lll,gochecknoglobals // readablity
var (
	DataDir         string // directory of the json documents (file store)
	StoreKind       string // file or postgres
	DB              string // connection string for the database (postgres store)
	WaitForServices string // duration to wait for the database to be ready
	LogLevel        string // sets the log level (zap log level values)
	SQLLogLevel     string // sets the log level for sql subsystem
	LogFormat       string // text vs json
	LogFilter       string // zapfilter rules, e.g. "debug:store.* info,warn,error:*"
	CatalogTTL      string // duration after which the catalog is reloaded, 0 keeps it until refreshed
)

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)
