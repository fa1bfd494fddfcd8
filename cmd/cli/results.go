package cli

import (
	"strconv"

	"github.com/storacha/evmfixture/cmd/cliutil/format"
)

type snapshotResult struct {
	ID string `json:"id"`
}

func (r snapshotResult) Fields() []format.Field {
	return []format.Field{{Name: "Snapshot", Value: r.ID}}
}

type revertResult struct {
	ID       string `json:"id"`
	Reverted bool   `json:"reverted"`
}

func (r revertResult) Fields() []format.Field {
	return []format.Field{
		{Name: "Snapshot", Value: r.ID},
		{Name: "Reverted", Value: strconv.FormatBool(r.Reverted)},
	}
}

type forkResult struct {
	Block     uint64 `json:"block"`
	Timestamp uint64 `json:"timestamp"`
	Forked    bool   `json:"forked"`
}

func (r forkResult) Fields() []format.Field {
	return []format.Field{
		{Name: "Forked", Value: strconv.FormatBool(r.Forked)},
		{Name: "Block", Value: strconv.FormatUint(r.Block, 10)},
		{Name: "Timestamp", Value: strconv.FormatUint(r.Timestamp, 10)},
	}
}

type accountResult struct {
	Address      string `json:"address"`
	Impersonated bool   `json:"impersonated"`
}

func (r accountResult) Fields() []format.Field {
	return []format.Field{
		{Name: "Address", Value: r.Address},
		{Name: "Impersonated", Value: strconv.FormatBool(r.Impersonated)},
	}
}

type balanceResult struct {
	Address string `json:"address"`
	Token   string `json:"token,omitempty"`
	Balance string `json:"balance"`
	Ether   string `json:"ether,omitempty"`
}

func (r balanceResult) Fields() []format.Field {
	fields := []format.Field{{Name: "Address", Value: r.Address}}
	if r.Token != "" {
		fields = append(fields, format.Field{Name: "Token", Value: r.Token})
	}
	fields = append(fields, format.Field{Name: "Balance", Value: r.Balance})
	if r.Ether != "" {
		fields = append(fields, format.Field{Name: "Ether", Value: r.Ether})
	}
	return fields
}

type blockResult struct {
	Block     uint64 `json:"block"`
	Timestamp uint64 `json:"timestamp"`
}

func (r blockResult) Fields() []format.Field {
	return []format.Field{
		{Name: "Block", Value: strconv.FormatUint(r.Block, 10)},
		{Name: "Timestamp", Value: strconv.FormatUint(r.Timestamp, 10)},
	}
}

type receiptResult struct {
	TxHash  string `json:"tx_hash"`
	Block   uint64 `json:"block"`
	GasUsed uint64 `json:"gas_used"`
	Amount  string `json:"amount"`
}

func (r receiptResult) Fields() []format.Field {
	return []format.Field{
		{Name: "Transaction", Value: r.TxHash},
		{Name: "Block", Value: strconv.FormatUint(r.Block, 10)},
		{Name: "Gas Used", Value: strconv.FormatUint(r.GasUsed, 10)},
		{Name: "Amount", Value: r.Amount},
	}
}
