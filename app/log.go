package app

import (
	"github.com/hathornetwork/htrsignd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("HTRD")
