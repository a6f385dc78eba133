package api

import "fmt"

// Command is a Gearman packet command code. The numeric values are fixed
// by the protocol and shared between requests and responses.
type Command uint32

const (
	CanDo           Command = 1
	CantDo          Command = 2
	ResetAbilities  Command = 3
	PreSleep        Command = 4
	Noop            Command = 6
	SubmitJob       Command = 7
	JobCreated      Command = 8
	GrabJob         Command = 9
	NoJob           Command = 10
	JobAssign       Command = 11
	WorkStatus      Command = 12
	WorkComplete    Command = 13
	WorkFail        Command = 14
	GetStatus       Command = 15
	EchoReq         Command = 16
	EchoRes         Command = 17
	SubmitJobBG     Command = 18
	Error           Command = 19
	StatusRes       Command = 20
	SubmitJobHigh   Command = 21
	SetClientID     Command = 22
	CanDoTimeout    Command = 23
	AllYours        Command = 24
	WorkException   Command = 25
	OptionReq       Command = 26
	OptionRes       Command = 27
	WorkData        Command = 28
	WorkWarning     Command = 29
	GrabJobUniq     Command = 30
	JobAssignUniq   Command = 31
	SubmitJobHighBG Command = 32
	SubmitJobLow    Command = 33
	SubmitJobLowBG  Command = 34
)

var commandNames = map[Command]string{
	CanDo:           "CAN_DO",
	CantDo:          "CANT_DO",
	ResetAbilities:  "RESET_ABILITIES",
	PreSleep:        "PRE_SLEEP",
	Noop:            "NOOP",
	SubmitJob:       "SUBMIT_JOB",
	JobCreated:      "JOB_CREATED",
	GrabJob:         "GRAB_JOB",
	NoJob:           "NO_JOB",
	JobAssign:       "JOB_ASSIGN",
	WorkStatus:      "WORK_STATUS",
	WorkComplete:    "WORK_COMPLETE",
	WorkFail:        "WORK_FAIL",
	GetStatus:       "GET_STATUS",
	EchoReq:         "ECHO_REQ",
	EchoRes:         "ECHO_RES",
	SubmitJobBG:     "SUBMIT_JOB_BG",
	Error:           "ERROR",
	StatusRes:       "STATUS_RES",
	SubmitJobHigh:   "SUBMIT_JOB_HIGH",
	SetClientID:     "SET_CLIENT_ID",
	CanDoTimeout:    "CAN_DO_TIMEOUT",
	AllYours:        "ALL_YOURS",
	WorkException:   "WORK_EXCEPTION",
	OptionReq:       "OPTION_REQ",
	OptionRes:       "OPTION_RES",
	WorkData:        "WORK_DATA",
	WorkWarning:     "WORK_WARNING",
	GrabJobUniq:     "GRAB_JOB_UNIQ",
	JobAssignUniq:   "JOB_ASSIGN_UNIQ",
	SubmitJobHighBG: "SUBMIT_JOB_HIGH_BG",
	SubmitJobLow:    "SUBMIT_JOB_LOW",
	SubmitJobLowBG:  "SUBMIT_JOB_LOW_BG",
}

// String returns the protocol name of the command, or a numeric form for
// codes this library does not know about.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("COMMAND(%d)", uint32(c))
}
