// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx_test

import (
	"bytes"
	"fmt"

	"code.hybscloud.com/bufx"
)

func ExampleReader_Pull() {
	r := bufx.NewBytesReader([]byte("length-prefixed: payload"))
	if r.Pull(16, 16) {
		fmt.Printf("%s\n", r.Unread()[:16])
		r.MoveCursor(16)
	}
	rest, _ := bufx.ReadAll(&r.Reader)
	fmt.Printf("%s\n", rest)
	// Output:
	// length-prefixed:
	//  payload
}

func ExampleNewStreamWriter() {
	var sink bytes.Buffer
	w := bufx.NewStreamWriter(&sink, bufx.WithBufferSize(8))
	w.WriteString("buffered ")
	w.WriteString("runs")
	if err := w.Close(); err != nil {
		fmt.Println("close:", err)
		return
	}
	fmt.Println(sink.String())
	// Output:
	// buffered runs
}

func ExampleWriter_ReadMode() {
	w := bufx.NewBytesWriter()
	w.WriteString("xyz")

	r := w.ReadMode(1)
	view := make([]byte, 2)
	r.Read(view)
	fmt.Printf("%s\n", view)

	// Writing again picks up at the reader's position.
	w.WriteString("Q")
	fmt.Printf("%s\n", w.Bytes())
	// Output:
	// yz
	// xyzQ
}
