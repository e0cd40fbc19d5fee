// disasm loads a raw binary image into the PET's address space and
// disassembles it to stdout starting at the first instruction.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/pet6502/core/bus"
	"github.com/pet6502/core/disassemble"
)

var (
	startPC = flag.Int("start_pc", 0x0000, "PC value to start disassembling")
	offset  = flag.Int("offset", 0x0000, "Offset into RAM to start loading the image")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("usage: %s [-start_pc <PC>] [-offset <offset>] <filename>", os.Args[0])
	}
	fn := flag.Args()[0]

	b := bus.New()
	data, err := ioutil.ReadFile(fn)
	if err != nil {
		log.Fatalf("can't open %s: %v", fn, err)
	}

	max := 1<<16 - *offset
	if l := len(data); l > max {
		log.Printf("length %d at offset %d too long, truncating to 64k", l, *offset)
		data = data[:max]
	}
	for i, v := range data {
		b.Write(uint16(*offset+i), v)
	}

	fmt.Printf("0x%04X bytes at pc: %04X\n", len(data), *startPC)
	pc := uint16(*startPC)
	cnt := 0
	for cnt < len(data) {
		line, n := disassemble.Step(pc, b)
		pc += uint16(n)
		cnt += n
		fmt.Println(line)
	}
}
