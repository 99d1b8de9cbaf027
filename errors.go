package devm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for common failure conditions.
var (
	// ErrSyntax indicates the input line could not be parsed.
	ErrSyntax = errors.New("devm: syntax error")

	// ErrUnknownIdentifier indicates a name that is neither a constant nor a unit.
	ErrUnknownIdentifier = errors.New("devm: unknown identifier")

	// ErrUnknownFunction indicates a call to a function the registry doesn't know.
	ErrUnknownFunction = errors.New("devm: unknown function")

	// ErrArityMismatch indicates a function was called with the wrong number of arguments.
	ErrArityMismatch = errors.New("devm: wrong number of arguments")

	// ErrTypeMismatch indicates a value of the wrong kind was supplied.
	ErrTypeMismatch = errors.New("devm: type mismatch")

	// ErrInvalidLiteral indicates a malformed or out-of-range literal.
	ErrInvalidLiteral = errors.New("devm: invalid literal")

	// ErrInvalidArgument indicates an argument outside a function's domain.
	ErrInvalidArgument = errors.New("devm: invalid argument")

	// ErrOverflow indicates a checked operation exceeded 2^256 - 1.
	ErrOverflow = errors.New("devm: arithmetic overflow")

	// ErrUnderflow indicates a checked operation went below zero.
	ErrUnderflow = errors.New("devm: arithmetic underflow")

	// ErrDivisionByZero indicates a division or modulo by zero.
	ErrDivisionByZero = errors.New("devm: division by zero")

	// ErrSelectorMismatch indicates calldata doesn't start with the signature's selector.
	ErrSelectorMismatch = errors.New("devm: selector mismatch")

	// ErrMalformedCalldata indicates calldata with an invalid length or word.
	ErrMalformedCalldata = errors.New("devm: malformed calldata")

	// ErrUnsupportedConversion indicates a conversion between unrelated units.
	ErrUnsupportedConversion = errors.New("devm: unsupported unit conversion")

	// ErrRecursionLimit indicates the expression nests deeper than allowed.
	ErrRecursionLimit = errors.New("devm: recursion limit exceeded")
)

// SyntaxError reports a parse failure at a character offset of the input.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return "devm: syntax error at position " + strconv.Itoa(e.Pos) + ": " + e.Msg
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// LiteralError indicates a literal that could not be turned into a value.
type LiteralError struct {
	Pos    int
	Text   string
	Reason string
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("devm: invalid literal %q at position %d: %s", e.Text, e.Pos, e.Reason)
}

func (e *LiteralError) Unwrap() error {
	return ErrInvalidLiteral
}

// IdentifierError indicates a name that could not be resolved.
type IdentifierError struct {
	Name string
	Func bool
}

func (e *IdentifierError) Error() string {
	if e.Func {
		return fmt.Sprintf("devm: unknown function %q", e.Name)
	}
	return fmt.Sprintf("devm: unknown identifier %q", e.Name)
}

func (e *IdentifierError) Unwrap() error {
	if e.Func {
		return ErrUnknownFunction
	}
	return ErrUnknownIdentifier
}

// ArityError indicates a function call with the wrong number of arguments.
type ArityError struct {
	Func string
	Got  int
	Want string
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("devm: %s expects %s arguments, got %d", e.Func, e.Want, e.Got)
}

func (e *ArityError) Unwrap() error {
	return ErrArityMismatch
}

// TypeMismatchError indicates a value's kind doesn't match what an operation expects.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("devm: type mismatch: expected %s, got %s", e.Expected, e.Got)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// ArgumentError indicates an issue with a function argument.
type ArgumentError struct {
	Func  string
	Index int
	Err   error
}

func (e *ArgumentError) Error() string {
	if e.Func == "" {
		return fmt.Sprintf("devm: argument %d: %s", e.Index, cause(e.Err))
	}
	return fmt.Sprintf("devm: argument %d for %s: %s", e.Index, e.Func, cause(e.Err))
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// CallError wraps a failure inside a built-in function.
type CallError struct {
	Func string
	Err  error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("devm: %s: %s", e.Func, cause(e.Err))
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// AbiError wraps a failure while encoding or decoding against a signature.
type AbiError struct {
	Signature string
	Err       error
}

func (e *AbiError) Error() string {
	return fmt.Sprintf("devm: abi %q: %s", e.Signature, cause(e.Err))
}

func (e *AbiError) Unwrap() error {
	return e.Err
}

// OpError wraps an arithmetic failure with the operator and its position.
type OpError struct {
	Op  string
	Pos int
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("devm: %s at position %d: %s", e.Op, e.Pos, cause(e.Err))
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// ConversionError indicates a unit conversion across unit families.
type ConversionError struct {
	From string
	To   string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("devm: cannot convert %s to %s", e.From, e.To)
}

func (e *ConversionError) Unwrap() error {
	return ErrUnsupportedConversion
}

// cause renders a wrapped error without repeating the package prefix.
func cause(err error) string {
	return strings.TrimPrefix(err.Error(), "devm: ")
}

// ErrorKind classifies evaluation errors for hosts that switch on them.
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindSyntax
	KindUnknownIdentifier
	KindUnknownFunction
	KindArityMismatch
	KindTypeMismatch
	KindInvalidLiteral
	KindInvalidArgument
	KindOverflow
	KindUnderflow
	KindDivisionByZero
	KindSelectorMismatch
	KindMalformedCalldata
	KindUnsupportedConversion
	KindRecursionLimit
)

var kindNames = [...]string{
	KindUnknown:               "Unknown",
	KindSyntax:                "SyntaxError",
	KindUnknownIdentifier:     "UnknownIdentifier",
	KindUnknownFunction:       "UnknownFunction",
	KindArityMismatch:         "ArityMismatch",
	KindTypeMismatch:          "TypeMismatch",
	KindInvalidLiteral:        "InvalidLiteral",
	KindInvalidArgument:       "InvalidArgument",
	KindOverflow:              "ArithmeticOverflow",
	KindUnderflow:             "ArithmeticUnderflow",
	KindDivisionByZero:        "DivisionByZero",
	KindSelectorMismatch:      "AbiSelectorMismatch",
	KindMalformedCalldata:     "AbiMalformedCalldata",
	KindUnsupportedConversion: "UnitConversionUnsupported",
	KindRecursionLimit:        "RecursionLimitExceeded",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

var kindSentinels = []struct {
	err  error
	kind ErrorKind
}{
	{ErrRecursionLimit, KindRecursionLimit},
	{ErrSyntax, KindSyntax},
	{ErrInvalidLiteral, KindInvalidLiteral},
	{ErrUnknownIdentifier, KindUnknownIdentifier},
	{ErrUnknownFunction, KindUnknownFunction},
	{ErrArityMismatch, KindArityMismatch},
	{ErrTypeMismatch, KindTypeMismatch},
	{ErrOverflow, KindOverflow},
	{ErrUnderflow, KindUnderflow},
	{ErrDivisionByZero, KindDivisionByZero},
	{ErrSelectorMismatch, KindSelectorMismatch},
	{ErrMalformedCalldata, KindMalformedCalldata},
	{ErrUnsupportedConversion, KindUnsupportedConversion},
	{ErrInvalidArgument, KindInvalidArgument},
}

// KindOf returns the kind of the most specific devm error in err's chain.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	for _, s := range kindSentinels {
		if errors.Is(err, s.err) {
			return s.kind
		}
	}
	return KindUnknown
}
