package exporter

import (
	"fmt"
	"io"

	"gitlite/pkg/core"
)

// Mode 选择 cat-file 的输出内容
type Mode int

const (
	ModePretty Mode = iota // 原始 payload, 不追加换行
	ModeType               // "<type>\n"
	ModeSize               // "<size>\n"
)

func (m Mode) String() string {
	switch m {
	case ModePretty:
		return "pretty"
	case ModeType:
		return "type"
	case ModeSize:
		return "size"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Print writes content to w according to mode.
func Print(w io.Writer, content *core.Content, mode Mode) error {
	var err error
	switch mode {
	case ModePretty:
		// blob 的 pretty print 就是原样输出字节
		_, err = w.Write(content.Payload)
	case ModeType:
		_, err = fmt.Fprintln(w, content.Type)
	case ModeSize:
		_, err = fmt.Fprintln(w, content.Size)
	default:
		return fmt.Errorf("unsupported output mode %s", mode)
	}
	return err
}
