package config

// Application constants
const (
	AppName = "surveyprep"

	// EnvPrefix prefixes every environment override, e.g. SURVEYPREP_LOGGING_LEVEL
	EnvPrefix = "SURVEYPREP"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/surveyprep.log"

	DefaultSparsityThreshold = 0.30
	DefaultLabelColumn       = "RESPONSE"
	DefaultLegacyXAttribute  = "CAMEO_DEUG_2015"

	DefaultInputDelimiter  = ";"
	DefaultOutputDelimiter = ","
	DefaultWorkbookSheet   = "Tabelle1"
)

// DefaultCustomerColumns exist only in the customer extract
var DefaultCustomerColumns = []string{"CUSTOMER_GROUP", "ONLINE_PURCHASE", "PRODUCT_GROUP"}

// DefaultCustomerUnscaled keep their raw values in the customer extract
var DefaultCustomerUnscaled = []string{"KKK", "REGIOTYP"}

// ConfigFileLocations are searched in order when no path is given
var ConfigFileLocations = []string{
	"surveyprep.yaml",
	"configs/surveyprep.yaml",
}
