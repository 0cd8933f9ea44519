// Command tagrec 基于标签 TF-IDF 的内容推荐命令行。
//
//	tagrec recommend 4045 144 alice
//	tagrec score 4045 11 12 13
//	tagrec build --store bolt --store-path tagrec.db
//	tagrec inspect --item 11 --tag space
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
