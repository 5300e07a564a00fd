package installer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// InstallPath returns the target location for the self-installed binary,
// ~/bin/askgpt.
func InstallPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, "bin", "askgpt"), nil
}

// MaybeInstall offers to copy the running binary to ~/bin/askgpt when it is
// not there yet. Declining is not an error; installation happens at most once.
func MaybeInstall(in io.Reader, out io.Writer) error {
	target, err := InstallPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(target); err == nil {
		return nil
	}

	fmt.Fprintln(out, "It seems this is the first time you are running askgpt.")
	fmt.Fprintf(out, "Would you like to install this binary to %s? (y/n): ", target)

	reader := bufio.NewReader(in)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return nil
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
		fmt.Fprintln(out, "Skipping installation. You can install manually later if you want.")
		return nil
	}

	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate running binary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create install dir: %w", err)
	}
	if err := copyFile(self, target); err != nil {
		return fmt.Errorf("install binary: %w", err)
	}
	if err := os.Chmod(target, 0o755); err != nil {
		return fmt.Errorf("set executable bit: %w", err)
	}

	fmt.Fprintf(out, "Installed askgpt to %s.\n", target)
	fmt.Fprintln(out, "Add the following line to your ~/.bashrc if not already present:")
	fmt.Fprintln(out, `    export PATH="$HOME/bin:$PATH"`)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
