package utils_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/svnmodules/internal/utils"
)

const (
	testLoggerFactoryCaseSupportedFormatConstant   = "supported_log_level_%s_format_%s"
	testLoggerFactoryCaseUnsupportedLevelConstant  = "unsupported_log_level"
	testLoggerFactoryCaseUnsupportedFormatConstant = "unsupported_log_format"
	testLoggerFactorySubtestTemplateConstant       = "%d_%s"
	testInvalidLogLevelConstant                    = "invalid"
	testInvalidLogFormatConstant                   = "invalid"
	testLogMessageConstant                         = "logger_factory_test_message"
	testDebugMessageConstant                       = "logger_factory_debug_message"
	testErrorMessageConstant                       = "logger_factory_error_message"
	testISO8601TimestampLayoutConstant             = "2006-01-02T15:04:05.000Z0700"
	testTimestampFieldConstant                     = "ts"
	testLevelFieldConstant                         = "level"
	testMessageFieldConstant                       = "msg"
	testStacktraceFieldConstant                    = "stacktrace"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name                string
		requestedLogLevel   utils.LogLevel
		requestedLogFormat  utils.LogFormat
		expectError         bool
		expectStructuredLog bool
	}{
		{
			name:                fmt.Sprintf(testLoggerFactoryCaseSupportedFormatConstant, utils.LogLevelDebug, utils.LogFormatStructured),
			requestedLogLevel:   utils.LogLevelDebug,
			requestedLogFormat:  utils.LogFormatStructured,
			expectError:         false,
			expectStructuredLog: true,
		},
		{
			name:                fmt.Sprintf(testLoggerFactoryCaseSupportedFormatConstant, utils.LogLevelInfo, utils.LogFormatStructured),
			requestedLogLevel:   utils.LogLevelInfo,
			requestedLogFormat:  utils.LogFormatStructured,
			expectError:         false,
			expectStructuredLog: true,
		},
		{
			name:                fmt.Sprintf(testLoggerFactoryCaseSupportedFormatConstant, utils.LogLevelInfo, utils.LogFormatConsole),
			requestedLogLevel:   utils.LogLevelInfo,
			requestedLogFormat:  utils.LogFormatConsole,
			expectError:         false,
			expectStructuredLog: false,
		},
		{
			name:               testLoggerFactoryCaseUnsupportedLevelConstant,
			requestedLogLevel:  utils.LogLevel(testInvalidLogLevelConstant),
			requestedLogFormat: utils.LogFormatStructured,
			expectError:        true,
		},
		{
			name:               testLoggerFactoryCaseUnsupportedFormatConstant,
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormat(testInvalidLogFormatConstant),
			expectError:        true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testLoggerFactorySubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			loggerFactory := utils.NewLoggerFactory()

			pipeReader, pipeWriter, pipeError := os.Pipe()
			require.NoError(testInstance, pipeError)

			originalStderr := os.Stderr
			os.Stderr = pipeWriter

			logger, creationError := loggerFactory.CreateLogger(testCase.requestedLogLevel, testCase.requestedLogFormat)

			os.Stderr = originalStderr

			if testCase.expectError {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, logger)

				require.NoError(testInstance, pipeWriter.Close())
				require.NoError(testInstance, pipeReader.Close())
				return
			}

			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, logger)

			logger.Info(testLogMessageConstant)
			syncError := logger.Sync()
			if syncError != nil {
				require.True(testInstance, errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL))
			}

			require.NoError(testInstance, pipeWriter.Close())

			capturedOutput, readError := io.ReadAll(pipeReader)
			require.NoError(testInstance, readError)
			require.NoError(testInstance, pipeReader.Close())

			trimmedOutput := bytes.TrimSpace(capturedOutput)
			require.NotEmpty(testInstance, trimmedOutput)
			require.Contains(testInstance, string(trimmedOutput), testLogMessageConstant)

			isJSONLog := json.Valid(trimmedOutput)
			if testCase.expectStructuredLog {
				require.True(testInstance, isJSONLog)
			} else {
				require.False(testInstance, isJSONLog)
			}
		})
	}
}

func TestParseLogLevel(testInstance *testing.T) {
	parsedLevel, parseError := utils.ParseLogLevel(" DEBUG ")
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, utils.LogLevelDebug, parsedLevel)

	_, parseError = utils.ParseLogLevel("verbose")
	require.Error(testInstance, parseError)
}

func captureStandardErrorLogs(testInstance *testing.T, logLevel utils.LogLevel, logFormat utils.LogFormat, emit func(logger *zap.Logger)) []string {
	testInstance.Helper()

	pipeReader, pipeWriter, pipeError := os.Pipe()
	require.NoError(testInstance, pipeError)

	originalStderr := os.Stderr
	os.Stderr = pipeWriter
	logger, creationError := utils.NewLoggerFactory().CreateLogger(logLevel, logFormat)
	os.Stderr = originalStderr
	require.NoError(testInstance, creationError)

	emit(logger)
	_ = logger.Sync()
	require.NoError(testInstance, pipeWriter.Close())

	capturedOutput, readError := io.ReadAll(pipeReader)
	require.NoError(testInstance, readError)
	require.NoError(testInstance, pipeReader.Close())

	trimmedOutput := strings.TrimSpace(string(capturedOutput))
	if len(trimmedOutput) == 0 {
		return nil
	}
	return strings.Split(trimmedOutput, "\n")
}

func TestLoggerFactoryStructuredEncoding(testInstance *testing.T) {
	lines := captureStandardErrorLogs(testInstance, utils.LogLevelInfo, utils.LogFormatStructured, func(logger *zap.Logger) {
		logger.Debug(testDebugMessageConstant)
		logger.Info(testLogMessageConstant)
	})
	require.Len(testInstance, lines, 1)

	var entry map[string]any
	require.NoError(testInstance, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(testInstance, "info", entry[testLevelFieldConstant])
	require.Equal(testInstance, testLogMessageConstant, entry[testMessageFieldConstant])

	timestamp, timestampIsString := entry[testTimestampFieldConstant].(string)
	require.True(testInstance, timestampIsString)
	_, timestampParseError := time.Parse(testISO8601TimestampLayoutConstant, timestamp)
	require.NoError(testInstance, timestampParseError)
}

func TestLoggerFactoryConsoleEncodingUsesCapitalLevels(testInstance *testing.T) {
	lines := captureStandardErrorLogs(testInstance, utils.LogLevelInfo, utils.LogFormatConsole, func(logger *zap.Logger) {
		logger.Info(testLogMessageConstant)
	})
	require.Len(testInstance, lines, 1)

	columns := strings.Split(lines[0], "\t")
	require.GreaterOrEqual(testInstance, len(columns), 3)
	_, timestampParseError := time.Parse(testISO8601TimestampLayoutConstant, columns[0])
	require.NoError(testInstance, timestampParseError)
	require.Equal(testInstance, "INFO", columns[1])
	require.Equal(testInstance, testLogMessageConstant, columns[len(columns)-1])
}

func TestLoggerFactoryStacktraceOnlyAtDebug(testInstance *testing.T) {
	testCases := []struct {
		name              string
		logLevel          utils.LogLevel
		expectStacktrace  bool
		expectedLineCount int
	}{
		{name: "debug", logLevel: utils.LogLevelDebug, expectStacktrace: true, expectedLineCount: 2},
		{name: "info", logLevel: utils.LogLevelInfo, expectStacktrace: false, expectedLineCount: 1},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			lines := captureStandardErrorLogs(testInstance, testCase.logLevel, utils.LogFormatStructured, func(logger *zap.Logger) {
				logger.Debug(testDebugMessageConstant)
				logger.Error(testErrorMessageConstant)
			})
			require.Len(testInstance, lines, testCase.expectedLineCount)

			var errorEntry map[string]any
			require.NoError(testInstance, json.Unmarshal([]byte(lines[len(lines)-1]), &errorEntry))
			require.Equal(testInstance, testErrorMessageConstant, errorEntry[testMessageFieldConstant])
			_, stacktracePresent := errorEntry[testStacktraceFieldConstant]
			require.Equal(testInstance, testCase.expectStacktrace, stacktracePresent)
		})
	}
}
