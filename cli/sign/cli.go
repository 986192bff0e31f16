// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package sign

import (
	"github.com/spf13/cobra"
)

var SignCLI = &cobra.Command{
	Use:   "sign",
	Short: "Sign proposals with the authority key",
}

func init() {
	SignCLI.AddCommand(signProposalsCMD)
}
