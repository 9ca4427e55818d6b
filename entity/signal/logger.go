package signal

import "github.com/sirupsen/logrus"

// log 信号仿真模块的日志记录器
var log = logrus.WithField("module", "signal")
