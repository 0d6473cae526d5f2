// Command bookrec 是基于内容的图书推荐命令行工具。
//
//	bookrec recommend --works goodreads_works.csv --favorite 101 --favorite 202 -n 10
//	bookrec search "le guin"
//	bookrec sample goodreads_reviews.csv reviews_reduced.csv --fraction 0.2
//	bookrec stats --reviews goodreads_reviews.csv
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
