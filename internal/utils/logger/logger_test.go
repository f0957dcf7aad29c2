package logger

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/remesalabs/remesa-backend/internal/types/environments"
)

var _ = Describe("Logger", func() {
	var logger *Logger

	Describe("#New", func() {
		It("should create a new logger with production config when environment is production", func() {
			logger = New(environments.Production)
			Expect(logger).NotTo(BeNil())
			Expect(logger.wrappedLogger).NotTo(BeNil())
		})

		It("should create a new logger with development config when environment is development", func() {
			logger = New(environments.Development)
			Expect(logger).NotTo(BeNil())
			Expect(logger.wrappedLogger).NotTo(BeNil())
		})

		It("should create a new logger with staging config when environment is staging", func() {
			logger = New(environments.Staging)
			Expect(logger).NotTo(BeNil())
			Expect(logger.wrappedLogger).NotTo(BeNil())
		})

		It("should create a new logger with test config when environment is test", func() {
			logger = New(environments.Test)
			Expect(logger).NotTo(BeNil())
			Expect(logger.wrappedLogger).NotTo(BeNil())
		})

		It("should fall back to production config for an unknown environment", func() {
			logger = New(environments.Environment("unknown"))
			Expect(logger).NotTo(BeNil())
			Expect(logger.wrappedLogger).NotTo(BeNil())
		})
	})

	Describe("logging methods", func() {
		BeforeEach(func() {
			logger = New(environments.Test)
		})

		It("should not panic when logging without fields", func() {
			Expect(func() {
				logger.Info("info message")
				logger.Debug("debug message")
				logger.Error("error message")
			}).NotTo(Panic())
		})

		It("should not panic when logging with fields", func() {
			Expect(func() {
				logger.Info("info message", map[string]string{"key": "value"})
				logger.Error("error message", map[string]string{"error": "boom"})
			}).NotTo(Panic())
		})
	})
})
