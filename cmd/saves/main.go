// Command saves inspects and maintains the save slots: list, migrate old
// saves to the current version, back up slots as zstd archives, restore
// them, and delete slots.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/talgya/eyalet/internal/config"
	"github.com/talgya/eyalet/internal/engine"
	"github.com/talgya/eyalet/internal/save"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "migrate":
			migrateCmd(os.Args[2:])
			return
		case "backup":
			backupCmd(os.Args[2:])
			return
		case "restore":
			restoreCmd(os.Args[2:])
			return
		case "delete":
			deleteCmd(os.Args[2:])
			return
		case "list":
			listCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

func storeFlags(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	dir := fs.String("dir", "", "saves directory (default: from eyalet.yaml)")
	return fs, dir
}

func openStore(dir string) *save.Store {
	if dir == "" {
		cfg, err := config.Load("eyalet.yaml")
		if err != nil {
			fail(1, "config:", err)
		}
		dir = cfg.Paths.Saves
	}
	return save.NewStore(dir)
}

func slotArg(fs *flag.FlagSet) int {
	if fs.NArg() < 1 {
		fail(2, "missing slot number")
	}
	n, err := strconv.Atoi(fs.Arg(0))
	if err != nil || n < 1 || n > save.Slots {
		fail(2, fmt.Sprintf("slot must be 1-%d", save.Slots))
	}
	return n
}

func listCmd(args []string) {
	fs, dir := storeFlags("list")
	_ = fs.Parse(args)
	store := openStore(*dir)

	list, err := store.List()
	if err != nil {
		fail(1, "list:", err)
	}
	for _, info := range list {
		switch {
		case !info.Exists:
			fmt.Printf("%d. empty\n", info.Slot)
		case info.Err != "":
			fmt.Printf("%d. unreadable: %s\n", info.Slot, info.Err)
		default:
			stale := ""
			if save.CompareVersions(info.Version, engine.Version) < 0 {
				stale = " (needs migrate)"
			}
			fmt.Printf("%d. %s %s, year %d, turn %d, v%s%s, saved %s\n",
				info.Slot, info.GameID, info.Province, info.Year, info.Turn,
				info.Version, stale, humanize.Time(info.Modified))
		}
	}
}

func migrateCmd(args []string) {
	fs, dir := storeFlags("migrate")
	all := fs.Bool("all", false, "migrate every slot")
	_ = fs.Parse(args)
	store := openStore(*dir)

	slots := []int{}
	if *all {
		for i := 1; i <= save.Slots; i++ {
			slots = append(slots, i)
		}
	} else {
		slots = append(slots, slotArg(fs))
	}
	for _, n := range slots {
		from, err := store.Migrate(n)
		switch {
		case errors.Is(err, save.ErrSlotEmpty) && *all:
			continue
		case err != nil:
			fail(1, fmt.Sprintf("slot %d:", n), err)
		case from == engine.Version:
			fmt.Printf("slot %d already at v%s\n", n, engine.Version)
		default:
			fmt.Printf("slot %d migrated v%s -> v%s\n", n, from, engine.Version)
		}
	}
}

func backupCmd(args []string) {
	fs, dir := storeFlags("backup")
	_ = fs.Parse(args)
	store := openStore(*dir)

	path, err := store.Backup(slotArg(fs))
	if err != nil {
		fail(1, "backup:", err)
	}
	st, err := os.Stat(path)
	if err != nil {
		fail(1, "backup:", err)
	}
	fmt.Printf("backup ok: %s (%s)\n", path, humanize.Bytes(uint64(st.Size())))
}

func restoreCmd(args []string) {
	fs, dir := storeFlags("restore")
	from := fs.String("from", "", "backup file (default: latest backup of the slot)")
	_ = fs.Parse(args)
	store := openStore(*dir)
	slot := slotArg(fs)

	path := *from
	if path == "" {
		backups, err := store.Backups(slot)
		if err != nil {
			fail(1, "restore:", err)
		}
		if len(backups) == 0 {
			fail(2, fmt.Sprintf("no backups of slot %d in %s", slot, store.BackupDir()))
		}
		path = backups[len(backups)-1]
	}
	if err := store.Restore(path, slot); err != nil {
		fail(1, "restore:", err)
	}
	fmt.Printf("restore ok: %s -> slot %d\n", filepath.Base(path), slot)
}

func deleteCmd(args []string) {
	fs, dir := storeFlags("delete")
	_ = fs.Parse(args)
	store := openStore(*dir)
	slot := slotArg(fs)
	if err := store.Delete(slot); err != nil {
		fail(1, "delete:", err)
	}
	fmt.Printf("slot %d deleted\n", slot)
}

func fail(code int, msg ...any) {
	fmt.Fprintln(os.Stderr, msg...)
	os.Exit(code)
}
