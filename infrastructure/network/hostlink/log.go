package hostlink

import (
	"github.com/hathornetwork/htrsignd/infrastructure/logger"
	"github.com/hathornetwork/htrsignd/util/panics"
)

var log = logger.RegisterSubSystem("HLNK")
var spawn = panics.GoroutineWrapperFunc(log)
