package rn

import "time"

const (
	// Terminal Control
	CR = "\r"
	LF = "\n"

	// Commands
	CmdEnter         = "$$$"
	CmdExit          = "---\n"
	CmdFactoryReset  = "SF,1\n"
	CmdAuthMode      = "SA,4\n"
	CmdPairingEvents = "SE,1\n"
	CmdGetAddress    = "GB\n"
	CmdSecurityMode  = "SM,6\n"
	CmdReboot        = "R,1\n"
	CmdBasicSettings = "D\n"
	CmdExtSettings   = "E\n"
	CmdGetConnection = "GK\n"
	cmdRemoteAddress = "SR,%s\n"
	cmdPinCode       = "SP,%s\n"
	DefaultPinCode   = "c0de"

	// Reply tokens
	CMD       = "CMD"
	END       = "END"
	AOK       = "AOK"
	ERR       = "ERR"
	Unknown   = "?"
	Reboot    = "Reboot!"
	Connected = "1,0,0"
)

// LineCapacity is the size of the response buffer used for single line
// replies, terminator slot included.
const LineCapacity = 50

// Deadlines used by the command sequences.
const (
	DefaultTimeout   = 4000 * time.Millisecond
	EnterTimeout     = 1000 * time.Millisecond
	ReenterTimeout   = 2000 * time.Millisecond
	ExitTimeout      = 1000 * time.Millisecond
	FactoryTimeout   = 5000 * time.Millisecond
	RebootTimeout    = 6000 * time.Millisecond
	QuietWindow      = 200 * time.Millisecond
	DumpQuietWindow  = 1000 * time.Millisecond
	SettleDelay      = 1000 * time.Millisecond
	DefaultSetupWait = 1000 * time.Millisecond
	DefaultBaudRate  = 115200
)

type ResponseType int

const (
	TypeData   ResponseType = iota // Settings lines, addresses, status triples
	TypeAck                        // AOK
	TypeError                      // ERR, ?
	TypeMode                       // CMD, END
	TypeReboot                     // Reboot!
)
