// Package protocol implements the robot car serial wire grammar
//
//	<MsgKind>:<Id>:<CmdCode>[:<Arg>]*;
//
// Frames are short ASCII strings split on a delimiter and closed by a
// terminator. The same grammar is used for commands sent to the car and
// for the responses and errors it sends back.
package protocol

// Version is reported by the firmware debug banner and the host tool
const Version = "0.1.0"

// Wire grammar constants
const (
	Delimiter  = ':'
	Terminator = ';'

	FrameMax = 64 // Maximum frame size including the terminator

	// Token positions within a frame
	TokenKind    = 0
	TokenID      = 1
	TokenCommand = 2
	TokenArgs    = 3

	// MinCommandTokens is the smallest token count a command can have
	MinCommandTokens = TokenArgs
)

// Message kind codes (token 0)
const (
	CommandCode  = "C"
	ResponseCode = "R"
	ErrorCode    = "E"
)

// Command type codes (token 2)
const (
	StopWheelsCode   = "SW"
	TurnWheelsCode   = "TW"
	FindRangeCode    = "FR"
	StatusReportCode = "SR"
)

// ReadyBanner is written by the firmware once at boot so the host can
// recognise the port it is attached to.
const ReadyBanner = "Ready\r\n"
