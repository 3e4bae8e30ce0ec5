package scratch

import (
	"encoding/base32"
	"strings"

	"github.com/google/uuid"
)

const codeTokenLen = 10

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// CodeGenerator mints human shareable coupon codes like RESTO-K7QT2M9X4A.
// The alphabet is URL and SMS safe. Uniqueness is enforced by the coupon
// table, callers regenerate on a duplicate key error.
type CodeGenerator struct {
	prefix string
}

// NewCodeGenerator ...
func NewCodeGenerator(prefix string) *CodeGenerator {
	if prefix == "" {
		prefix = "RESTO"
	}
	return &CodeGenerator{prefix: prefix}
}

// NewCode ...
func (g *CodeGenerator) NewCode() string {
	id := uuid.New()
	token := codeEncoding.EncodeToString(id[:])
	return g.prefix + "-" + strings.ToUpper(token[:codeTokenLen])
}
