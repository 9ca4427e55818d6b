package control

import "github.com/sirupsen/logrus"

// log 信控决策模块的日志记录器
var log = logrus.WithField("module", "control")
