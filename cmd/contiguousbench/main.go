// Command contiguousbench is a profiling driver in the shape of the
// teacher's main.go: an http pprof endpoint, a heap profile dump, and a
// tight loop — here round-tripping a branched-array record through
// Deserialize and DeserializeCopy instead of an encode/decode pair,
// since this module has no serializer of its own (spec §1's Non-goals).
package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"reflect"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rawbytedev/contiguous"
	"github.com/rawbytedev/contiguous/internal/wire"
)

// Matrix is a branched-array record: a slice of slices. Its element
// type ([]int32) is itself a dynamic array, so deserializing M exercises
// the branching slicer's materialised-header path on every call.
type Matrix struct {
	M [][]int32
}

// buildMatrixInput hand-encodes the wire bytes for a Matrix whose M
// field is rows, per spec §6's branched-array layout: the top-level
// image, then the outer length, then each row's own <length><payload>
// block in index order, with no slice headers on the wire for the rows.
func buildMatrixInput(rows [][]int32) []byte {
	sizeofT := int(reflect.TypeOf(Matrix{}).Size())
	buf := make([]byte, sizeofT, sizeofT+1024)

	buf = appendWord(buf, uint64(len(rows)))
	for _, row := range rows {
		buf = appendWord(buf, uint64(len(row)))
		for _, v := range row {
			buf = append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
		}
	}
	return buf
}

func appendWord(buf []byte, w uint64) []byte {
	word := make([]byte, wire.WordSize)
	wire.WriteWord(word, w)
	return append(buf, word...)
}

func main() {
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
	f, err := os.Create("mem.prof")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	runtime.MemProfileRate = 1

	rows := [][]int32{{1, 2, 3}, {4, 5}, {6}, {7, 8, 9, 10}}
	input := buildMatrixInput(rows)

	var dst contiguous.Contiguous[Matrix]
	for i := 0; i < 10000; i++ {
		buf := append([]byte(nil), input...)
		if _, err := contiguous.Deserialize[Matrix](&buf); err != nil {
			log.Fatal(err)
		}
		if _, err := contiguous.DeserializeCopy[Matrix](input, &dst); err != nil {
			log.Fatal(err)
		}
	}

	pprof.WriteHeapProfile(f)
	time.Sleep(5 * time.Minute)
}
