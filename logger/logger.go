// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ConfigureLogger sets the global log level and writes logs to a console
// writer on stdout together with any extra writers
func ConfigureLogger(lvl zerolog.Level, out ...io.Writer) {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stdout}}
	writers = append(writers, out...)

	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
}

// FileWriter opens the log file in append mode
func FileWriter(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}
