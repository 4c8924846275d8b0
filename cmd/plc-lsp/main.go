// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"plc/internal/lsp"
)

const lsName = "plc"

var version = "0.0.1"

func main() {
	commonlog.Configure(1, nil)

	plcHandler := lsp.NewHandler()

	handler := protocol.Handler{
		Initialize:            plcHandler.Initialize,
		Initialized:           plcHandler.Initialized,
		Shutdown:              plcHandler.Shutdown,
		TextDocumentDidOpen:   plcHandler.TextDocumentDidOpen,
		TextDocumentDidClose:  plcHandler.TextDocumentDidClose,
		TextDocumentDidChange: plcHandler.TextDocumentDidChange,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("starting plc LSP server", version)
	if err := s.RunStdio(); err != nil {
		log.Println("plc LSP server stopped:", err)
		os.Exit(1)
	}
}
