package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whoamaiii/devxp/internal/daemon"
	"github.com/whoamaiii/devxp/internal/infra/sqlite"
)

func init() {
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up or restore the devxp database",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create PATH",
	Short: "Write a consistent snapshot of the database to PATH",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupCreate,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore PATH",
	Short: "Replace the database with the backup at PATH",
	Long: `Replace the live database with a backup. Stop any running
'devxp serve' first; restoring under an open daemon loses the restore.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupRestore,
}

func runBackupCreate(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.DB.Backup(args[0]); err != nil {
		return err
	}
	fmt.Printf("Backed up to %s\n", args[0])
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	// No daemon: the database must stay closed while the file is swapped.
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return err
	}

	if err := sqlite.Restore(cfg.Data.Dir, args[0]); err != nil {
		return err
	}
	fmt.Printf("Restored from %s\n", args[0])
	return nil
}
