// Package autoload initializes the global logger from the environment as a
// side effect of being imported.
package autoload

import (
	configx "github.com/shopease/churn-analyst/pkg/config"
	logx "github.com/shopease/churn-analyst/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
