package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// A slice (not a map) because errors.Is() requires chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	{
		err: ErrUnknownInputType,
		info: ErrorInfo{
			Message: "A task in the registry declares an input type the schema generator does not know.",
			Action:  "Check the offending task in the registry export; the type tag is printed in the error.",
		},
	},
	{
		err: ErrTemplateSlotMissing,
		info: ErrorInfo{
			Message: "The embedded schema template is missing a placeholder.",
			Action:  "This is a build problem; reinstall taskschema.",
		},
	},
	{
		err: ErrTemplateSlotDuplicate,
		info: ErrorInfo{
			Message: "The embedded schema template contains a placeholder more than once.",
			Action:  "This is a build problem; reinstall taskschema.",
		},
	},
	{
		err: ErrTemplateInvalid,
		info: ErrorInfo{
			Message: "The embedded schema template is not valid JSON.",
			Action:  "This is a build problem; reinstall taskschema.",
		},
	},
	{
		err: ErrSchemaInvalid,
		info: ErrorInfo{
			Message: "The generated schema is not a valid draft-07 JSON schema.",
			Action:  "Run with --verbose to see which keyword failed.",
		},
	},
	{
		err: ErrNoTasksFound,
		info: ErrorInfo{
			Message: "No tasks were found in the task registry file.",
			Action:  "Run 'taskschema fetch' to download the registry, or pass --tasks.",
		},
	},
	{
		err: ErrRegistryDecode,
		info: ErrorInfo{
			Message: "The task registry file is not valid JSON.",
			Action:  "Re-download it with 'taskschema fetch'.",
		},
	},
	{
		err: ErrRegistryAuth,
		info: ErrorInfo{
			Message: "The task registry rejected the access token.",
			Action:  "Check that the personal access token has the 'Agent Pools (read)' scope.",
		},
	},
	{
		err: ErrRegistryFetch,
		info: ErrorInfo{
			Message: "Could not download the task registry.",
			Action:  "Check the organization URL and your network connection.",
		},
	},
	{
		err: ErrMissingToken,
		info: ErrorInfo{
			Message: "No access token is available for the task registry.",
			Action:  "Export the token in the environment variable named by registry.token_env_var.",
		},
	},
	{
		err: ErrPipelineParse,
		info: ErrorInfo{
			Message: "A pipeline file is not valid YAML.",
		},
	},
	{
		err: ErrPipelineInvalid,
		info: ErrorInfo{
			Message: "One or more pipeline files do not match the schema.",
			Action:  "Fix the reported locations and re-run 'taskschema validate'.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use --output text or --output json.",
		},
	},
	{
		err: ErrConfigInvalidRegistry,
		info: ErrorInfo{
			Message: "Invalid registry configuration.",
			Action:  "Check the registry section of your config file.",
		},
	},
	{
		err: ErrConfigInvalidOutput,
		info: ErrorInfo{
			Message: "Invalid output configuration.",
			Action:  "Check the output section of your config file.",
		},
	},
	{
		err: ErrConfigInvalidWatch,
		info: ErrorInfo{
			Message: "Invalid watch configuration.",
			Action:  "Check the watch section of your config file.",
		},
	},
}

//nolint:gochecknoglobals // Built once from errorInfoEntries
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// Direct sentinels hit the map; wrapped errors fall back to errors.Is().
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action. The action is empty when there is nothing the user can do.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
