// Package main is the entry point for the kubeclient CLI.
package main

import (
	"os"

	"github.com/kunghenryyong/kubernetes-client/cmd/kubeclient/app"
	"github.com/kunghenryyong/kubernetes-client/pkg/logger"
)

func main() {
	logger.Initialize()

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
