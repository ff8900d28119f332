package signer

import (
	"fmt"

	"github.com/hathornetwork/htrsignd/domain/netparams"
	"github.com/hathornetwork/htrsignd/domain/txstream"
	"github.com/hathornetwork/htrsignd/util"
)

// outputLines renders the two confirmation lines for a visible output.
// Positions are 1-based and count only the outputs the user actually sees,
// so a transaction whose change output sits in the middle still reads
// "Output 1/2", "Output 2/2".
func outputLines(output *txstream.Output, position, total int,
	params *netparams.Params) (line1, line2 string, err error) {

	address, err := util.EncodeAddress(output.PubkeyHash, params.P2PKHVersion)
	if err != nil {
		return "", "", err
	}

	line1 = fmt.Sprintf("Output %d/%d", position, total)
	line2 = fmt.Sprintf("%s %s %s", address, params.CurrencyLabel, util.FormatValue(output.Value))
	return line1, line2, nil
}
