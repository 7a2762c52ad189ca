package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"github/chapool/testnet-tokens/internal/util"
	"golang.org/x/term"
)

const (
	defaultRPCURL              = "http://127.0.0.1:8545"
	defaultDeployerIndex       = 1
	defaultRichWallets         = 10
	defaultDeployGasLimit      = 5_000_000
	defaultReceiptTimeout      = 2 * time.Minute
	defaultReceiptPollInterval = 3 * time.Second
	defaultDialRetries         = 3
	defaultFeeMultiplier       = 2

	testConfigRelativePath = "etc/test_config/constant/eth.json"
	artifactsRelativePath  = "contracts/ethereum/artifacts"
)

type Chain struct {
	RPCURLs             []string
	DeployGasLimit      uint64
	ReceiptTimeout      time.Duration
	ReceiptPollInterval time.Duration
	DialRetries         uint64
	// Multiplier applied to the latest base fee when computing maxFeePerGas.
	FeeMultiplier int64
}

type Wallet struct {
	Mnemonic     string `json:"-"`
	TestMnemonic string `json:"-"`
	KeystorePath string
	// TestConfigPath points at the zkSync eth.json holding mnemonic and test_mnemonic.
	TestConfigPath   string
	DeployerIndex    uint32
	PrintPrivateKeys bool
}

type Templates struct {
	ArtifactsDir string
	ManifestPath string
	// DefaultImplementation of "" leaves the choice to the manifest or the builtin default.
	DefaultImplementation string
}

type Seeding struct {
	DefaultSpenderAddress string
	RichWalletCount       int
	ParallelFanOut        bool
}

type LoggerServer struct {
	Level              zerolog.Level
	LogCaller          bool
	PrettyPrintConsole bool
}

type Metrics struct {
	TextfilePath string
}

type Provisioner struct {
	Chain     Chain
	Wallet    Wallet
	Templates Templates
	Seeding   Seeding
	Logger    LoggerServer
	Metrics   Metrics
}

// DefaultProvisionerConfigFromEnv returns the provisioner config as parsed from
// environment variables and their respective defaults defined above.
//
// A .env file is loaded beforehand unless CHAIN_ETH_NETWORK is already present,
// and the seed phrases fall back to the zkSync test config if not set directly.
// An empty TestMnemonic is left empty, the wallets fall back to Mnemonic once
// all overrides are applied.
//
//nolint:funlen // Config assembly is a flat list of fields.
func DefaultProvisionerConfigFromEnv() Provisioner {
	if _, ok := os.LookupEnv("CHAIN_ETH_NETWORK"); !ok {
		// .env is optional, a missing file is not an error
		_ = gotenv.Load()
	}

	zksyncHome := util.GetEnv("ZKSYNC_HOME", "")

	defaultTestConfigPath := ""
	defaultArtifactsDir := "artifacts"
	if zksyncHome != "" {
		defaultTestConfigPath = filepath.Join(zksyncHome, testConfigRelativePath)
		defaultArtifactsDir = filepath.Join(zksyncHome, artifactsRelativePath)
	}

	cfg := Provisioner{
		Chain: Chain{
			RPCURLs:             util.GetEnvAsStringArr("ETH_CLIENT_WEB3_URL", []string{defaultRPCURL}),
			DeployGasLimit:      util.GetEnvAsUint64("PROVISIONER_DEPLOY_GAS_LIMIT", defaultDeployGasLimit),
			ReceiptTimeout:      util.GetEnvAsDuration("PROVISIONER_RECEIPT_TIMEOUT", defaultReceiptTimeout),
			ReceiptPollInterval: util.GetEnvAsDuration("PROVISIONER_RECEIPT_POLL_INTERVAL", defaultReceiptPollInterval),
			DialRetries:         util.GetEnvAsUint64("PROVISIONER_DIAL_RETRIES", defaultDialRetries),
			FeeMultiplier:       int64(util.GetEnvAsInt("PROVISIONER_FEE_MULTIPLIER", defaultFeeMultiplier)),
		},
		Wallet: Wallet{
			Mnemonic:         util.GetEnv("PROVISIONER_MNEMONIC", ""),
			TestMnemonic:     util.GetEnv("PROVISIONER_TEST_MNEMONIC", ""),
			KeystorePath:     util.GetEnv("PROVISIONER_KEYSTORE_PATH", ""),
			TestConfigPath:   util.GetEnv("PROVISIONER_TEST_CONFIG_PATH", defaultTestConfigPath),
			DeployerIndex:    util.GetEnvAsUint32("PROVISIONER_DEPLOYER_INDEX", defaultDeployerIndex),
			PrintPrivateKeys: util.GetEnvAsBool("PROVISIONER_PRINT_PRIVATE_KEYS", true),
		},
		Templates: Templates{
			ArtifactsDir:          util.GetEnv("PROVISIONER_ARTIFACTS_DIR", defaultArtifactsDir),
			ManifestPath:          util.GetEnv("PROVISIONER_TEMPLATES_MANIFEST", ""),
			DefaultImplementation: util.GetEnv("PROVISIONER_DEFAULT_IMPLEMENTATION", ""),
		},
		Seeding: Seeding{
			DefaultSpenderAddress: util.GetEnv("CONTRACTS_DIAMOND_PROXY_ADDR", ""),
			RichWalletCount:       util.GetEnvAsInt("PROVISIONER_RICH_WALLETS", defaultRichWallets),
			ParallelFanOut:        util.GetEnvAsBool("PROVISIONER_PARALLEL_FANOUT", false),
		},
		Logger: LoggerServer{
			Level:              util.LogLevelFromString(util.GetEnv("LOGGER_LEVEL", zerolog.InfoLevel.String())),
			LogCaller:          util.GetEnvAsBool("LOGGER_CALLER", false),
			PrettyPrintConsole: util.GetEnvAsBool("LOGGER_PRETTY_PRINT_CONSOLE", term.IsTerminal(int(os.Stderr.Fd()))),
		},
		Metrics: Metrics{
			TextfilePath: util.GetEnv("METRICS_TEXTFILE_PATH", ""),
		},
	}

	if cfg.Wallet.TestConfigPath != "" {
		if err := cfg.ApplyTestConfig(cfg.Wallet.TestConfigPath); err != nil {
			log.Warn().Err(err).Str("path", cfg.Wallet.TestConfigPath).Msg("Failed to read test config, continuing without it")
		}
	}

	return cfg
}

// ApplyTestConfig reads a zkSync style eth.json (or any viper supported file
// carrying the same keys) and fills in the seed phrases that are still empty.
// Values already set from the environment take precedence.
func (c *Provisioner) ApplyTestConfig(path string) error {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read test config %s", path)
	}

	if c.Wallet.Mnemonic == "" {
		c.Wallet.Mnemonic = v.GetString("mnemonic")
	}
	if c.Wallet.TestMnemonic == "" {
		c.Wallet.TestMnemonic = v.GetString("test_mnemonic")
	}

	return nil
}

// ApplyOverrides reads a config file passed via --config. Keys present in the
// file override the environment.
func (c *Provisioner) ApplyOverrides(path string) error {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}

	if v.IsSet("chain.rpc_urls") {
		c.Chain.RPCURLs = v.GetStringSlice("chain.rpc_urls")
	}
	if v.IsSet("chain.receipt_timeout") {
		c.Chain.ReceiptTimeout = v.GetDuration("chain.receipt_timeout")
	}
	if v.IsSet("chain.deploy_gas_limit") {
		c.Chain.DeployGasLimit = v.GetUint64("chain.deploy_gas_limit")
	}
	if v.IsSet("wallet.mnemonic") {
		c.Wallet.Mnemonic = v.GetString("wallet.mnemonic")
	}
	if v.IsSet("wallet.test_mnemonic") {
		c.Wallet.TestMnemonic = v.GetString("wallet.test_mnemonic")
	}
	if v.IsSet("wallet.keystore_path") {
		c.Wallet.KeystorePath = v.GetString("wallet.keystore_path")
	}
	if v.IsSet("wallet.deployer_index") {
		c.Wallet.DeployerIndex = v.GetUint32("wallet.deployer_index")
	}
	if v.IsSet("wallet.print_private_keys") {
		c.Wallet.PrintPrivateKeys = v.GetBool("wallet.print_private_keys")
	}
	if v.IsSet("templates.artifacts_dir") {
		c.Templates.ArtifactsDir = v.GetString("templates.artifacts_dir")
	}
	if v.IsSet("templates.manifest_path") {
		c.Templates.ManifestPath = v.GetString("templates.manifest_path")
	}
	if v.IsSet("seeding.spender_address") {
		c.Seeding.DefaultSpenderAddress = v.GetString("seeding.spender_address")
	}
	if v.IsSet("seeding.rich_wallets") {
		c.Seeding.RichWalletCount = v.GetInt("seeding.rich_wallets")
	}
	if v.IsSet("seeding.parallel_fanout") {
		c.Seeding.ParallelFanOut = v.GetBool("seeding.parallel_fanout")
	}

	return nil
}
