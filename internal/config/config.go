package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used for remote rosters.
var UserAgent = "Go-Assistant/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Assistant"
	AppID             = "go-assistant"
	BinBirthdays      = "birthdays"
	BinContacts       = "contactbot"
	LocalhostBindAddr = "127.0.0.1"
	LogFileExt        = ".log"
	SettingsFileName  = "config.yaml"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for log files.
	FilePermUserRW fs.FileMode = 0600

	// FilePermUserRWGroupR represents -rw-r--r--, used for the contacts file
	// and exported calendars.
	FilePermUserRWGroupR fs.FileMode = 0644

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagFile        = "file"
	FlagFileShort   = "f"
	FlagLang        = "lang"
	FlagICS         = "ics"
	FlagPort        = "port"
	FlagRefresh     = "refresh"
	FlagConfig      = "config"
	FlagDebug       = "debug"
	FlagVersion     = "version"
	FlagDescFileBd  = "path to the csv (or vcf) file with users data"
	FlagDescFileCt  = "path to the json file with contacts"
	FlagDescLang    = "language of user-facing messages (%s)"
	FlagDescICS     = "also write this week's congratulations as an iCalendar file"
	FlagDescPort    = "port of the local calendar feed"
	FlagDescRefresh = "cron schedule used to recompute the feed"
	FlagDescConfig  = "path to the YAML settings file"
	FlagDescDebug   = "Enable debug logging"
	FlagDescVersion = "Show application version and exit"

	MsgVersionOutput = "%s version %s (%s, %s/%s)\n"

	CmdBirthdaysShort = "Show whose birthdays should be celebrated this week"
	CmdServeUse       = "serve"
	CmdServeShort     = "Serve this week's congratulations as an iCalendar feed"
	CmdContactsShort  = "Interactive contact book"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyGreeting      = "greeting"
	TKeyAdded         = "contact_added"   // Requires Name
	TKeyExists        = "contact_exists"  // Requires Name
	TKeyUpdated       = "contact_updated" // Requires Name
	TKeyMissing       = "contact_missing" // Requires Name
	TKeyEmptyBook     = "contacts_empty"
	TKeyUsage         = "usage_name_phone"
	TKeyNoCommand     = "no_command"
	TKeyInvalid       = "invalid_command"
	TKeyGoodbye       = "goodbye"
	TKeySignal        = "signal_received"
	TKeySaveFailed    = "save_failed"    // Requires Err
	TKeyFileNotFound  = "file_not_found" // Requires Path
	TKeyFormatError   = "format_error"   // Requires Err
	TKeyParseError    = "parse_error"    // Requires Err
	TKeyEvtSummary    = "event_summary"  // Requires Name
	TKeyWeekdayPrefix = "weekday_"       // + lowercase English weekday
	TKeyLocalesDir    = "locales"
	LocaleFilePrefix  = "active."
	LocaleFileSuffix  = ".json"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultUsersFile    = "./data/users.csv"
	DefaultContactsFile = "./data/contacts.json"
	DefaultLanguage     = "en"
	DefaultPort         = "18080"
	DefaultRefresh      = "@daily"
	DefaultLeapYear     = 2000 // Leap year anchor for yearless dates like --02-29

	// Required roster columns (case-sensitive).
	ColumnName     = "name"
	ColumnBirthday = "birthday"

	// Shell
	Prompt        = "console bot >>> "
	KeywordHello  = "hello"
	KeywordAdd    = "add"
	KeywordChange = "change"
	KeywordPhone  = "phone"
	KeywordAll    = "all"
)

// SupportedLanguages defines the list of available message languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// ExitKeywords terminate the contact shell.
var ExitKeywords = []string{"exit", "q", "quit", "close"}

// -----------------------------------------------------------------------------
// Data Formats & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts accepted for birthdays.
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	ExtCSV   = ".csv"
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
	ExtJSON  = ".json"

	JSONIndent = "    "
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Assistant//Birthdays//EN"
	ICalCalName = "Birthdays this week"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	FormatUIDInput  = "%s|%s|%d"
	FallbackSummary = "Birthday: %s"
	FormatUIDDomain = "%s@go-assistant"

	// StubVCalendar is the minimal valid iCalendar object used when nobody
	// has a birthday this week.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrNotCSV           = "is not a supported roster file"
	ErrNotJSON          = "is not a JSON file"
	ErrMissingColumns   = `does not have the expected columns "name" and "birthday"`
	ErrMalformedJSON    = "malformed contacts file"
	ErrEmptyName        = "empty name"
	ErrShortRow         = "row has fewer fields than the header"
	ErrDateParse        = "unable to parse date"
	ErrRosterRead       = "failed to read roster"
	ErrFlush            = "failed to save contacts"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrICalWrite        = "failed to write iCalendar file"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrSettingsRead     = "failed to read settings file"
	ErrSettingsParse    = "failed to parse settings file"
	ErrSchedule         = "invalid refresh schedule"
	ErrInputRead        = "failed to read input"
	ErrConfigDir        = "could not determine user config dir"
	ErrRemoteUnreadable = "remote roster is not readable"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting       = "Starting application"
	MsgAppStop           = "Application stopped gracefully"
	MsgRosterLoaded      = "Roster loaded"
	MsgRosterUnavailable = "Roster unavailable, nothing to report"
	MsgSkippedRow        = "Skipping malformed roster row"
	MsgSkippedCard       = "Skipping malformed vCard"
	MsgWeekComputed      = "Week computed"
	MsgICalWritten       = "Calendar file written"
	MsgServerListen      = "HTTP server listening"
	MsgServerStop        = "Shutting down HTTP server..."
	MsgCacheUpdated      = "Calendar cache updated"
	MsgRefreshFailed     = "Feed refresh failed"
	MsgContactsLoad      = "Contacts loaded"
	MsgContactsSaved     = "Contacts saved"
	MsgFlushSkipped      = "No contacts to save, leaving file untouched"
	MsgCommand           = "Command dispatched"
	MsgSignal            = "Termination signal received, shutting down"
	MsgLocaleSkip        = "Skipping non-locale file"
	MsgLocaleLoaded      = "Locale loaded successfully"
	MsgLangFallback      = "Unsupported language, using the default"
	MsgTransMissing      = "Missing translation key"
	MsgLogWarning        = "Warning: %s at %s: %v\n"
	MsgSkipRowOutput     = "Skipping row %d %v: %v\n"
	MsgFetchStart        = "Initiating roster download"
	MsgWorkerStart       = "Feed scheduler started"
	MsgWorkerStop        = "Feed scheduler stopped"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyRow       = "row"
	LogKeyCount     = "count"
	LogKeyDays      = "days"
	LogKeyCommand   = "command"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeySchedule  = "schedule"
	LogKeyToday     = "today"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain     = "main"
	CompEngine   = "engine"
	CompRoster   = "roster"
	CompFetcher  = "fetcher"
	CompServer   = "server"
	CompWorker   = "worker"
	CompContacts = "contacts"
	CompShell    = "shell"
	CompI18n     = "i18n"
)
