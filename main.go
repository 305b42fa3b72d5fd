/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package main

import (
	"github.com/josephgoksu/QuestWing/cmd"
	"github.com/josephgoksu/QuestWing/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
