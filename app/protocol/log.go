package protocol

import (
	"github.com/hathornetwork/htrsignd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("PROT")
