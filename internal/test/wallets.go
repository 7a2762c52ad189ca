package test

const (
	// Mnemonic is the well-known development seed phrase used by local nodes.
	Mnemonic = "test test test test test test test test test test test junk"
	// TestMnemonic is a second phrase standing in for test_mnemonic in eth.json.
	TestMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	Address0    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	PrivateKey0 = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	Address1    = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

	// SpenderAddress plays the diamond proxy in tests.
	SpenderAddress = "0x000000000000000000000000000000000000d1a0"
)
