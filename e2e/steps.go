package e2e

import (
	"github.com/cucumber/godog"

	"poltem/e2e/steps/account"
	"poltem/e2e/steps/common"
	"poltem/e2e/steps/participation"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	account.RegisterSteps(ctx, tc)
	participation.RegisterSteps(ctx, tc)
}
