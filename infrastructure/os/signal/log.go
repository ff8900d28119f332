package signal

import (
	"github.com/hathornetwork/htrsignd/infrastructure/logger"
	"github.com/hathornetwork/htrsignd/util/panics"
)

var log = logger.RegisterSubSystem("HTRD")
var spawn = panics.GoroutineWrapperFunc(log)
