package view

import (
	"errors"
	"fmt"
	"strings"
)

// maxSMILESLength bounds the notation accepted by the molecule page.
const maxSMILESLength = 1000

// smilesChars is the character set of SMILES notation: atoms, bonds,
// branches, ring closures, charges, isotopes and stereo markers.
const smilesChars = "ABCDEFGHIKLMNOPRSTUVWXYZabcdefghiklmnoprstuy0123456789()[]=#+-@/\\%.:*$"

// ErrEmptySMILES is returned by ValidateSMILES for blank input.
var ErrEmptySMILES = errors.New("smiles notation is empty")

// MoleculePage is the data for the molecule viewer page.
type MoleculePage struct {
	Title  string
	SMILES string
}

// ValidateSMILES checks that s only uses SMILES notation characters.
//
// It does not parse the molecule; the external renderer reports structural
// errors itself. The check keeps arbitrary text out of the viewer page.
func ValidateSMILES(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmptySMILES
	}
	if len(s) > maxSMILESLength {
		return fmt.Errorf("smiles notation longer than %d characters", maxSMILESLength)
	}
	for i, r := range s {
		if !strings.ContainsRune(smilesChars, r) {
			return fmt.Errorf("invalid character %q at position %d", r, i)
		}
	}
	return nil
}
