package constant

// Lua plugin globals - these names form the contract between the core and resolver scripts.
const (
	DomainsVar    = "Domains"
	PriorityVar   = "Priority"
	UniversalVar  = "Universal"
	MinVersionVar = "MinVersion"

	GetHostAndIDFn   = "GetHostAndId"
	GetURLFn         = "GetUrl"
	GetMediaURLFn    = "GetMediaUrl"
	GetMediaLabelsFn = "GetMediaLabels"
	LoginFn          = "Login"
)

// DefaultPriority is assigned to Lua plugins that do not declare one.
const DefaultPriority = 100

// PluginExtension is the file extension of custom resolver scripts.
const PluginExtension = ".lua"

// PluginTemplate is a Go text/template for scaffolding new Lua resolver plugins.
const PluginTemplate = `{{ $divider := repeat "-" (plus (max (len .Domain) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @domain  {{ .Domain }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


----- IMPORTS -----
local http = require("http")
local regexp = require("regexp")
--- END IMPORTS ---



----- VARIABLES -----
{{ .DomainsVar }} = { "{{ .Domain }}" }
{{ .PriorityVar }} = 100
{{ .UniversalVar }} = false
--- END VARIABLES ---



----- MAIN -----

--- Extracts the host and media id from a page URL.
-- @param url string Page URL
-- @return string|nil host
-- @return string|nil media id
function {{ .GetHostAndIDFn }}(url)
	local groups = regexp.find_all_string_submatch("(?:https?://)?(?:www\\.)?([^/]+)/watch\\?v=([\\w-]+)", url)
	if #groups == 0 then
		return nil
	end
	return groups[1][2], groups[1][3]
end


--- Builds the canonical page URL.
-- @param host string
-- @param media_id string
-- @return string
function {{ .GetURLFn }}(host, media_id)
	return "https://" .. host .. "/watch?v=" .. media_id
end


--- Resolves the media to a direct URL.
-- @param host string
-- @param media_id string
-- @return string|nil direct media url
function {{ .GetMediaURLFn }}(host, media_id)
	return nil
end


--- END MAIN ---




----- HELPERS -----
--- END HELPERS ---

-- ex: ts=4 sw=4 et filetype=lua
`
