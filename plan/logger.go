package plan

import "github.com/sirupsen/logrus"

// log 配时规划模块的日志记录器
var log = logrus.WithField("module", "plan")
