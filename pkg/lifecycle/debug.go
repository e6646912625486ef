/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package lifecycle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/valyala/bytebufferpool"
)

type logger struct {
	name      string
	out       io.Writer
	callDepth int
}

var (
	internalLogger = &logger{"", os.Stdout, 3}
	level          int

	magenta = string([]byte{27, 91, 57, 53, 109}) // Trace
	green   = string([]byte{27, 91, 57, 50, 109}) // Debug
	blue    = string([]byte{27, 91, 57, 52, 109}) // Info
	yellow  = string([]byte{27, 91, 57, 51, 109}) // Warn
	red     = string([]byte{27, 91, 57, 49, 109}) // Error
	reset   = string([]byte{27, 91, 48, 109})

	colors = []string{
		magenta,
		green,
		blue,
		yellow,
		red,
	}

	levelName = []string{
		"Trace",
		"Debug",
		"Info",
		"Warn",
		"Error",
	}
)

const (
	levelTrace = iota
	levelDebug
	levelInfo
	levelWarn
	levelError
	levelNoPrint
)

func init() {
	level = levelWarn
	if os.Getenv("LIFECYCLE_LOG_LEVEL") != "" {
		if n, err := strconv.Atoi(os.Getenv("LIFECYCLE_LOG_LEVEL")); err == nil {
			if n <= levelNoPrint {
				level = n
			}
		}
	}
}

// SetLogLevel changes the internal logger's level; the default is Warning.
// The process env `LIFECYCLE_LOG_LEVEL` also sets it.
func SetLogLevel(l int) {
	if l <= levelNoPrint {
		level = l
	}
}

func (l *logger) errorf(format string, a ...interface{}) {
	if level > levelError {
		return
	}
	if _, err := fmt.Fprintf(l.out, l.prefix(levelError)+format+reset+"\n", a...); err != nil {
		fmt.Fprintf(os.Stderr, "logger errorf failed: %v\n", err)
	}
}

func (l *logger) warnf(format string, a ...interface{}) {
	if level > levelWarn {
		return
	}
	if _, err := fmt.Fprintf(l.out, l.prefix(levelWarn)+format+reset+"\n", a...); err != nil {
		fmt.Fprintf(os.Stderr, "logger warnf failed: %v\n", err)
	}
}

func (l *logger) infof(format string, a ...interface{}) {
	if level > levelInfo {
		return
	}
	if _, err := fmt.Fprintf(l.out, l.prefix(levelInfo)+format+reset+"\n", a...); err != nil {
		fmt.Fprintf(os.Stderr, "logger infof failed: %v\n", err)
	}
}

func (l *logger) debugf(format string, a ...interface{}) {
	if level > levelDebug {
		return
	}
	if _, err := fmt.Fprintf(l.out, l.prefix(levelDebug)+format+reset+"\n", a...); err != nil {
		fmt.Fprintf(os.Stderr, "logger debugf failed: %v\n", err)
	}
}

func (l *logger) prefix(level int) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.WriteString(colors[level])
	_, _ = buf.WriteString(levelName[level])
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(time.Now().Format("2006-01-02 15:04:05.999999"))
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(l.location())
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(l.name)
	_ = buf.WriteByte(' ')
	return buf.String()
}

func (l *logger) location() string {
	_, file, line, ok := runtime.Caller(l.callDepth)
	if !ok {
		file = "???"
		line = 0
	}
	file = filepath.Base(file)
	return file + ":" + strconv.Itoa(line)
}

// DumpState renders the coordinator's phase and component registry, for
// debugging stuck initializations.
func (c *Coordinator) DumpState() string {
	c.mu.Lock()
	names := make([]string, len(c.order))
	copy(names, c.order)
	c.mu.Unlock()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.WriteString("phase:")
	_, _ = buf.WriteString(c.CurrentPhase().String())
	_, _ = buf.WriteString(" components:")
	_, _ = buf.WriteString(strconv.Itoa(len(names)))
	for _, name := range names {
		comp, ok := c.components.Get(name)
		if !ok {
			continue
		}
		_, _ = buf.WriteString("\n  ")
		_, _ = buf.WriteString(name)
		_, _ = buf.WriteString(" initialized:")
		_, _ = buf.WriteString(strconv.FormatBool(comp.initialized))
		_, _ = buf.WriteString(" required:")
		_, _ = buf.WriteString(strconv.FormatBool(comp.required))
		if len(comp.dependencies) > 0 {
			_, _ = buf.WriteString(" deps:")
			_, _ = buf.WriteString(fmt.Sprint(comp.dependencies))
		}
	}
	return buf.String()
}
