package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	strbridge "github.com/wippyai/strbridge"
	"github.com/wippyai/strbridge/encoding"
)

func main() {
	var (
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		demo        = flag.Bool("demo", false, "Run a scripted demonstration and exit")
		encName     = flag.String("enc", "UTF-8", "Default encoding for new strings")
	)
	flag.Parse()

	enc, err := encoding.Lookup(*encName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	encoding.SetDefaultExternal(enc)

	switch {
	case *demo:
		if err := runDemo(enc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case *interactive:
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(enc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "Usage: strbridge -i            (interactive mode)")
		fmt.Fprintln(os.Stderr, "       strbridge -demo         (scripted demonstration)")
		fmt.Fprintln(os.Stderr, "       strbridge -enc NAME ... (default encoding)")
		os.Exit(1)
	}
}

func runDemo(enc *encoding.Encoding) error {
	b := strbridge.New()
	defer b.Close()

	h, err := b.NewString([]byte("héllo"), 6, enc)
	if err != nil {
		return err
	}
	fmt.Printf("new string: handle %d\n", h)

	if err := b.Cat(h, []byte(" world")); err != nil {
		return err
	}
	out, err := b.Bytes(h)
	if err != nil {
		return err
	}
	n, _ := b.Len(h)
	cn, err := b.CharLen(h)
	if err != nil {
		return err
	}
	fmt.Printf("after cat: %q (%d bytes, %d chars)\n", out, n, cn)

	u16, err := encoding.Lookup("UTF-16LE")
	if err != nil {
		return err
	}
	conv, err := b.Convert(h, nil, u16, encoding.PolicyFail)
	if err != nil {
		return err
	}
	cb, _ := b.Bytes(conv)
	fmt.Printf("as UTF-16LE: % x\n", cb)

	hash, _ := b.Hash(h)
	fmt.Printf("hash: %016x\n", hash)
	fmt.Printf("live strings: %d\n", b.Count())
	return nil
}
