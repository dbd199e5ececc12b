package main

import (
	"fmt"
	"io"
)

func runHelp(args []string, stdout io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stdout, HelpMainUsage)
		return ExitCodeSuccess
	}

	cmd := args[0]
	switch cmd {
	case CmdNameMatch:
		fmt.Fprintln(stdout, HelpMatchUsage)
	case CmdNameParse:
		fmt.Fprintln(stdout, HelpParseUsage)
	case CmdNameScan:
		fmt.Fprintln(stdout, HelpScanUsage)
	case CmdNameGen:
		fmt.Fprintln(stdout, HelpGenUsage)
	case CmdNameCatalog:
		fmt.Fprintln(stdout, HelpCatalogUsage)
	case CmdNameVersion:
		fmt.Fprintln(stdout, HelpVersionUsage)
	case CmdNameHelp:
		fmt.Fprintln(stdout, HelpHelpUsage)
	default:
		fmt.Fprintf(stdout, FmtErrorWithDetail, ErrMsgUnknownCommand, cmd)
		fmt.Fprintln(stdout, HelpMainUsage)
		return ExitCodeUsageError
	}

	return ExitCodeSuccess
}
