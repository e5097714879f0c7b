package integration

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stacklok/rust-tracker/internal/logger"
)

var (
	ctx    context.Context
	cancel context.CancelFunc
)

func TestTrackerIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Tracker Integration Suite")
}

var _ = BeforeSuite(func() {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(GinkgoWriter),
		zapcore.DebugLevel,
	)
	logger.Set(zap.New(core))

	ctx, cancel = context.WithCancel(context.TODO())
})

var _ = AfterSuite(func() {
	cancel()
})
