package screen

import (
	"github.com/hathornetwork/htrsignd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("SCRN")
