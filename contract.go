package devm

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Contract is a JSON ABI whose methods can be named by bare name in
// selector, abi_encode, abi_encode_with_selector and abi_decode once the
// contract is registered with WithContracts.
type Contract struct {
	name string
	abi  abi.ABI
}

// NewContract wraps a parsed ABI under a display name.
func NewContract(name string, contractABI abi.ABI) *Contract {
	return &Contract{name: name, abi: contractABI}
}

// LoadContract reads a JSON ABI from r.
func LoadContract(name string, r io.Reader) (*Contract, error) {
	parsed, err := abi.JSON(r)
	if err != nil {
		return nil, fmt.Errorf("devm: parse abi of %s: %w", name, err)
	}
	return NewContract(name, parsed), nil
}

// ParseABI parses a JSON ABI string into an abi.ABI.
func ParseABI(abiJSON string) (abi.ABI, error) {
	return abi.JSON(strings.NewReader(abiJSON))
}

// MustParseABI is like ParseABI but panics on error.
func MustParseABI(abiJSON string) abi.ABI {
	parsed, err := ParseABI(abiJSON)
	if err != nil {
		panic(err)
	}
	return parsed
}

// Name returns the contract's display name.
func (c *Contract) Name() string {
	return c.name
}

// ABI returns the contract ABI.
func (c *Contract) ABI() abi.ABI {
	return c.abi
}

// Signature returns the signature of the named method. Overloads are
// addressed by go-ethereum's disambiguated names, e.g. "transfer0".
func (c *Contract) Signature(method string) (*Signature, error) {
	m, ok := c.abi.Methods[method]
	if !ok {
		return nil, &IdentifierError{Name: c.name + "." + method}
	}
	return signatureOf(m), nil
}

// MethodBySelector returns the signature whose selector is sel.
func (c *Contract) MethodBySelector(sel [4]byte) (*Signature, bool) {
	m, err := c.abi.MethodById(sel[:])
	if err != nil {
		return nil, false
	}
	return signatureOf(*m), true
}

// HasMethod returns true if the contract has a method with the given name.
func (c *Contract) HasMethod(method string) bool {
	_, ok := c.abi.Methods[method]
	return ok
}

// MethodNames returns all method names in the contract ABI, sorted.
func (c *Contract) MethodNames() []string {
	names := make([]string, 0, len(c.abi.Methods))
	for name := range c.abi.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lookupMethod resolves a bare method name against contracts in order.
func lookupMethod(contracts []*Contract, name string) (*Signature, bool) {
	for _, c := range contracts {
		if !c.HasMethod(name) {
			continue
		}
		if sig, err := c.Signature(name); err == nil {
			return sig, true
		}
	}
	return nil, false
}

// lookupSelector finds the method with selector sel among contracts.
func lookupSelector(contracts []*Contract, sel [4]byte) (*Signature, bool) {
	for _, c := range contracts {
		if sig, ok := c.MethodBySelector(sel); ok {
			return sig, true
		}
	}
	return nil, false
}
