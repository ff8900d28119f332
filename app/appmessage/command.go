// Package appmessage defines the request/response messages the device
// exchanges with its host, along with their serialized forms. It holds
// types only and performs no I/O.
package appmessage

import "fmt"

// RequestClass is the class byte every request must carry.
const RequestClass = 0xE0

// Command is the instruction byte of a request, selecting the operation
// the device should perform.
type Command byte

// Instructions the device understands.
const (
	CmdGetVersion Command = 0x01
	CmdGetAddress Command = 0x02
	CmdSignTx     Command = 0x04
	CmdGetXPub    Command = 0x10
)

var commandToString = map[Command]string{
	CmdGetVersion: "GetVersion",
	CmdGetAddress: "GetAddress",
	CmdSignTx:     "SignTx",
	CmdGetXPub:    "GetXPub",
}

func (cmd Command) String() string {
	commandString, ok := commandToString[cmd]
	if !ok {
		commandString = "unknown command"
	}
	return fmt.Sprintf("%s [code 0x%02x]", commandString, byte(cmd))
}

// SignTx first-parameter values, selecting the operation within the
// signing session.
const (
	SignTxDataChunk        = 0x00
	SignTxRequestSignature = 0x01
	SignTxClose            = 0x02
)
