package diagnostics

import (
	"encoding/json"
)

// Kind is the variant an extension record decoded into.
type Kind int

const (
	KindError Kind = iota
	KindInfo
)

func (k Kind) String() string {
	if k == KindInfo {
		return "info"
	}
	return "error"
}

// ExtensionInfo describes an extension that loaded successfully.
type ExtensionInfo struct {
	ExtensionName   string              `json:"extensionName"`
	Config          map[string]string   `json:"config,omitempty"`
	StageDefinition map[string][]string `json:"stageDefinition,omitempty"`
}

// ExtensionError describes an extension that failed to load.
type ExtensionError struct {
	LastError LastError `json:"lastError"`
}

type LastError struct {
	ErrorMessage string `json:"errorMessage"`
	Time         string `json:"time"`
}

// Extension is either an ExtensionInfo or an ExtensionError. The variant is
// fixed when the record is decoded: an extensionName key wins over lastError,
// and a record with neither decodes empty and classifies as an error.
type Extension struct {
	info    *ExtensionInfo
	failure *ExtensionError
}

func NewInfoExtension(info ExtensionInfo) Extension {
	return Extension{info: &info}
}

func NewErrorExtension(failure ExtensionError) Extension {
	return Extension{failure: &failure}
}

// Info returns the loaded variant.
func (e Extension) Info() (ExtensionInfo, bool) {
	if e.info == nil {
		return ExtensionInfo{}, false
	}
	return *e.info, true
}

// Failure returns the error variant.
func (e Extension) Failure() (ExtensionError, bool) {
	if e.info != nil || e.failure == nil {
		return ExtensionError{}, false
	}
	return *e.failure, true
}

// Classify reports which variant ext holds. Absent records are not info.
func Classify(ext *Extension) Kind {
	if ext != nil && ext.info != nil {
		return KindInfo
	}
	return KindError
}

func IsInfo(ext *Extension) bool {
	return Classify(ext) == KindInfo
}

// UnmarshalJSON never fails: records that are not objects, or whose fields
// carry unexpected types, decode with whatever could be read.
func (e *Extension) UnmarshalJSON(data []byte) error {
	*e = Extension{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil
	}
	if raw, ok := fields["extensionName"]; ok {
		info := ExtensionInfo{}
		_ = json.Unmarshal(raw, &info.ExtensionName)
		if cfg, ok := fields["config"]; ok {
			_ = json.Unmarshal(cfg, &info.Config)
		}
		if stages, ok := fields["stageDefinition"]; ok {
			_ = json.Unmarshal(stages, &info.StageDefinition)
		}
		e.info = &info
		return nil
	}
	if raw, ok := fields["lastError"]; ok {
		failure := ExtensionError{}
		_ = json.Unmarshal(raw, &failure.LastError)
		e.failure = &failure
	}
	return nil
}

func (e Extension) MarshalJSON() ([]byte, error) {
	switch {
	case e.info != nil:
		return json.Marshal(e.info)
	case e.failure != nil:
		return json.Marshal(e.failure)
	default:
		return []byte("null"), nil
	}
}
