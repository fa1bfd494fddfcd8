package node

// Administrative methods understood by Hardhat Network and by Anvil's hardhat
// compatibility layer.
const (
	MethodSnapshot                 = "evm_snapshot"
	MethodRevert                   = "evm_revert"
	MethodMine                     = "evm_mine"
	MethodSetNextBlockTimestamp    = "evm_setNextBlockTimestamp"
	MethodReset                    = "hardhat_reset"
	MethodImpersonateAccount       = "hardhat_impersonateAccount"
	MethodStopImpersonatingAccount = "hardhat_stopImpersonatingAccount"
	MethodSetBalance               = "hardhat_setBalance"
)

// Standard methods used alongside the administrative ones.
const (
	MethodSendTransaction       = "eth_sendTransaction"
	MethodGetTransactionReceipt = "eth_getTransactionReceipt"
)
