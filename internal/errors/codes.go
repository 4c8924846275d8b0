package errors

// Error codes for the plc compiler, grouped by spec §7's five error kinds.
//
// E0xxx: lexical / syntactic errors (surfaced by the parser)
// E1xxx: semantic errors (undefined identifier, assignment to constant, ...)
// E2xxx: lowering-internal errors (an unrecognized IR node, div-by-zero fold)
// E3xxx: allocator errors (too many simultaneously-live variables)
// E4xxx: I/O errors (unreadable source, unwritable output)

const (
	ErrorUnexpectedToken  = "E0001"
	ErrorUnexpectedSymbol = "E0002"
	ErrorMissingTerminator = "E0003"

	ErrorUndefinedIdentifier  = "E1001"
	ErrorAssignToConstant     = "E1002"
	ErrorCallNonProcedure     = "E1003"
	ErrorDuplicateDeclaration = "E1004"

	ErrorUnrecognizedNode  = "E2001"
	ErrorDivisionByZero    = "E2002"

	ErrorTooManyLiveVariables = "E3001"

	ErrorSourceUnreadable = "E4001"
	ErrorOutputUnwritable = "E4002"
)
