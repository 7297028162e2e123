/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package ftl

import (
	"strings"
	"testing"
)

// ---------------------- Benchmarks ----------------------

var benchSimpleMessages = strings.Repeat("button-backup = Back up\nbutton-cancel = Cancel\n    .title = Stop\n", 50)

var benchSelectMessages = strings.Repeat(`processed = { $count ->
    [one] { $count } game processed, { $size }
   *[other] { $count } games processed, { $size }
}
-brand = Ludusavi
about = About { -brand }
`, 50)

func Benchmark_Parse_Simple(b *testing.B) {
	p := NewParser()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse(benchSimpleMessages); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Parse_Select(b *testing.B) {
	p := NewParser()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse(benchSelectMessages); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Serialize(b *testing.B) {
	res := MustParse(benchSelectMessages)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Serialize(res)
	}
}
