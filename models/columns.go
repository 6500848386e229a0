package models

// Column names the engine looks up by name. Files may order or omit them freely.
const (
	ColEmail          = "Email"
	ColUserID         = "User ID"
	ColDate           = "Date"
	ColIsActive       = "Is Active"
	ColClientVersion  = "Client Version"
	ColApplyExtension = "Most Used Apply Extension"
	ColTabExtension   = "Most Used Tab Extension"
	ColModel          = "Most Used Model"
	ColAPIKeyReqs     = "API Key Reqs"
)

// MergedDateMarker replaces the Date value of every merged row.
const MergedDateMarker = "Merged"

// NumericColumns are summed when rows of the same user are merged.
var NumericColumns = []string{
	"Chat Suggested Lines Added",
	"Chat Suggested Lines Deleted",
	"Chat Accepted Lines Added",
	"Chat Accepted Lines Deleted",
	"Chat Total Applies",
	"Chat Total Accepts",
	"Chat Total Rejects",
	"Chat Tabs Shown",
	"Tabs Accepted",
	"Edit Requests",
	"Ask Requests",
	"Agent Requests",
	"Cmd+K Usages",
	"Subscription Included Reqs",
	ColAPIKeyReqs,
	"Usage Based Reqs",
	"Bugbot Usages",
}

// RequestColumns is the subset of NumericColumns counted as requests for
// company totals and for picking the most used model.
var RequestColumns = []string{
	"Edit Requests",
	"Ask Requests",
	"Agent Requests",
	"Cmd+K Usages",
	"Subscription Included Reqs",
	ColAPIKeyReqs,
	"Usage Based Reqs",
	"Bugbot Usages",
}

// ExcludedExportColumns never appear in exported CSV text.
var ExcludedExportColumns = []string{
	ColIsActive,
	ColClientVersion,
	ColDate,
	ColApplyExtension,
	ColTabExtension,
	ColAPIKeyReqs,
}

var (
	numericSet  = toSet(NumericColumns)
	excludedSet = toSet(ExcludedExportColumns)
)

// IsNumericColumn reports whether header is summed on merge.
func IsNumericColumn(header string) bool {
	_, ok := numericSet[header]
	return ok
}

// IsExcludedExportColumn reports whether header is dropped on export.
func IsExcludedExportColumn(header string) bool {
	_, ok := excludedSet[header]
	return ok
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
