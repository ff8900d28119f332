package appmessage

import "fmt"

// StatusWord is the 2-byte result code that terminates every response.
type StatusWord uint16

// Status words the device reports.
const (
	StatusOK                      StatusWord = 0x9000
	StatusUserRejected            StatusWord = 0x6985
	StatusDeveloperError          StatusWord = 0x6B00
	StatusInvalidParam            StatusWord = 0x6B01
	StatusImproperInit            StatusWord = 0x6B02
	StatusInstructionNotSupported StatusWord = 0x6D00
	StatusClassNotSupported       StatusWord = 0x6E00
)

var statusWordToString = map[StatusWord]string{
	StatusOK:                      "OK",
	StatusUserRejected:            "UserRejected",
	StatusDeveloperError:          "DeveloperError",
	StatusInvalidParam:            "InvalidParam",
	StatusImproperInit:            "ImproperInit",
	StatusInstructionNotSupported: "InstructionNotSupported",
	StatusClassNotSupported:       "ClassNotSupported",
}

func (sw StatusWord) String() string {
	statusString, ok := statusWordToString[sw]
	if !ok {
		statusString = "unknown status"
	}
	return fmt.Sprintf("%s [0x%04x]", statusString, uint16(sw))
}
