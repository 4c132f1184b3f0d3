// Package events defines the trigger event kinds delivered by the host
// platform, the payload accessors the engine needs for filtering, and the
// filter evaluator that decides whether a declared handler fires for a
// given event.
//
// The engine never interprets a trigger payload beyond the handful of
// fields used for filtering (addressed range, form id, change
// classification); everything else is forwarded to handlers unexamined.
package events

// Kind identifies one of the fixed trigger categories the platform can
// deliver to an entry function.
type Kind string

const (
	// KindInstall fires once when the script is installed into a document.
	KindInstall Kind = "install"
	// KindOpen fires when the bound document is opened.
	KindOpen Kind = "open"
	// KindEdit fires when a cell value is edited.
	KindEdit Kind = "edit"
	// KindChange fires on a structural change (insert/remove row, etc.).
	KindChange Kind = "change"
	// KindSelectionChange fires when the user selection moves.
	KindSelectionChange Kind = "selection_change"
	// KindFormSubmit fires when a linked form response is submitted.
	KindFormSubmit Kind = "form_submit"
)

// Domain identifies which document family an event-style controller is
// bound to. A controller declares exactly one domain.
type Domain string

const (
	DomainSpreadsheet Domain = "spreadsheet"
	DomainDocument    Domain = "document"
	DomainForm        Domain = "form"
	DomainSlides      Domain = "slides"
	DomainAddon       Domain = "addon"
)

// Payload is the raw, kind-specific trigger event as delivered by the
// platform. The engine treats it as opaque except for the filter fields
// read by the accessors below.
type Payload map[string]any

// RangeA1 extracts the addressed cell range of an edit-style event in A1
// notation. The platform delivers the range either as a plain string under
// "range" or as a range object carrying an "a1Notation" field.
func RangeA1(event Payload) string {
	switch v := event["range"].(type) {
	case string:
		return v
	case map[string]any:
		if a1, ok := v["a1Notation"].(string); ok {
			return a1
		}
	}
	return ""
}

// FormID extracts the identifier of the submitting form from a
// form-submission event.
func FormID(event Payload) string {
	if id, ok := event["formId"].(string); ok {
		return id
	}
	return ""
}

// ChangeType extracts the change classification from a structural-change
// event (e.g. "INSERT_ROW", "REMOVE_COLUMN", "FORMAT").
func ChangeType(event Payload) string {
	if ct, ok := event["changeType"].(string); ok {
		return ct
	}
	return ""
}
