package scanner

import (
	"strings"
	"testing"

	"github.com/tluyben/phpfront/internal/token"
)

// benchSource 一段有代表性的 PHP 源码，复制若干份
func benchSource(copies int) string {
	unit := `<?php
namespace Bench;

use Foo\Bar as Baz;

class Worker extends Base implements Runnable {
	const LIMIT = 100;
	private $items = [];

	public function run(int $n, ?string $label = null): array {
		$out = [];
		for ($i = 0; $i < $n; $i++) {
			$out[] = "item $i of {$this->total}";
		}
		return $out;
	}
}

$w = new Worker();
echo $w->run(10)[0] ?? 'none';
?>
`
	return strings.Repeat(unit, copies)
}

func BenchmarkScanner(b *testing.B) {
	src := benchSource(10)
	b.SetBytes(int64(len(src)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s := NewString(src, Config{})
		for {
			if s.Next().Kind == token.END {
				break
			}
		}
	}
}

func BenchmarkScannerInterpolation(b *testing.B) {
	src := "<?php " + strings.Repeat(`$s = "a{$x}b$y[0]c$z->p";`, 200)
	b.SetBytes(int64(len(src)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s := NewString(src, Config{})
		for {
			if s.Next().Kind == token.END {
				break
			}
		}
	}
}
