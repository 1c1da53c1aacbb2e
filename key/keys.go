// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Resolver Plugins - these keys manage which plugins are registered and how the builtin ones behave.
const (
	ResolversDisabled        = "resolvers.disabled"
	ResolversGenericDomains  = "resolvers.generic.domains"
	ResolversGenericPriority = "resolvers.generic.priority"
)

// Resolution - these keys govern a single resolution request.
const (
	ResolveTimeout = "resolve.timeout"
	ResolveOpenApp = "resolve.open_app"
)

// History Tracking - these keys configure the persistence of resolved media.
const (
	HistorySave = "history.save"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
