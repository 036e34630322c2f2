package settings

import (
	"fmt"
	"strings"
)

// Default Tesseract settings: single uniform text block, default engine, English.
const (
	DefaultPSM  = 6
	DefaultOEM  = 3
	DefaultLang = "eng"
)

// Settings is the OCR configuration applied to an upload.
type Settings struct {
	PSM  int    `json:"psm"`
	OEM  int    `json:"oem"`
	Lang string `json:"lang"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{PSM: DefaultPSM, OEM: DefaultOEM, Lang: DefaultLang}
}

// Resolve builds settings from configured values. Zero PSM or OEM and a
// blank language keep the defaults.
func Resolve(psm, oem int, lang string) Settings {
	s := Default()
	if psm != 0 {
		s.PSM = psm
	}
	if oem != 0 {
		s.OEM = oem
	}
	if lang = strings.TrimSpace(lang); lang != "" {
		s.Lang = lang
	}
	return s
}

// String renders the settings as Tesseract command-line flags.
// This is the form persisted alongside each upload record.
func (s Settings) String() string {
	return fmt.Sprintf("--psm %d --oem %d -l %s", s.PSM, s.OEM, s.Lang)
}

// Patch carries a partial update; nil fields are left unchanged.
type Patch struct {
	PSM  *int    `json:"psm"`
	OEM  *int    `json:"oem"`
	Lang *string `json:"lang"`
}

// Apply returns a copy of s with the patch's present fields overwritten.
func (p Patch) Apply(s Settings) Settings {
	if p.PSM != nil {
		s.PSM = *p.PSM
	}
	if p.OEM != nil {
		s.OEM = *p.OEM
	}
	if p.Lang != nil {
		s.Lang = *p.Lang
	}
	return s
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.PSM == nil && p.OEM == nil && p.Lang == nil
}
