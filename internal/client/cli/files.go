package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/vkozyrev/sharebox/internal/client/models"
	"github.com/vkozyrev/sharebox/internal/client/services"
)

func (a *App) currentUserID(ctx context.Context) (string, bool) {
	user := a.authService.LoggedInUser(ctx)
	if user == nil {
		fmt.Println("Please log in first")
		return "", false
	}
	return user.ID, true
}

// Files lists the user's own files.
func (a *App) Files(ctx context.Context) error {
	userID, ok := a.currentUserID(ctx)
	if !ok {
		return nil
	}

	files, err := a.fileService.ListMyFiles(ctx, userID)
	if err != nil {
		log.Println(err.Error())
		return nil
	}
	if len(files) == 0 {
		fmt.Println("No files yet")
		return nil
	}
	for _, f := range files {
		printFile(f)
	}
	return nil
}

// Upload reads one or more local paths, screens them for duplicates with an
// interactive prompt, and uploads the approved ones.
func (a *App) Upload(ctx context.Context) error {
	userID, ok := a.currentUserID(ctx)
	if !ok {
		return nil
	}

	paths, err := GetMultiline(a.reader, "Enter file paths, one per line", os.Stdout)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Println("Nothing to upload")
		return nil
	}

	picked, err := a.picker.Pick(paths)
	if err != nil {
		log.Println(err.Error())
		return nil
	}

	batch := services.NewBatchUpload(picked, userID, a.fileService, a.log)
	result, err := batch.Run(ctx, func(p services.DuplicatePrompt) services.Decision {
		answer, err := getSimpleText(a.reader,
			fmt.Sprintf("A file named %q already exists (%s). Upload anyway? [y/N]", p.Existing.FileName, formatSize(p.Existing.FileSize)),
			os.Stdout)
		if err != nil {
			return services.DecisionSkip
		}
		if strings.EqualFold(strings.TrimSpace(answer), "y") {
			return services.DecisionUpload
		}
		return services.DecisionSkip
	})
	if err != nil {
		log.Println(err.Error())
		return nil
	}

	fmt.Printf("Uploaded %d file(s)\n", len(result.Saved))
	for _, failure := range result.Failed {
		fmt.Printf("  failed: %s: %v\n", failure.Name, failure.Err)
	}
	return nil
}

// Share sends one of the user's files to another user.
func (a *App) Share(ctx context.Context) error {
	if _, ok := a.currentUserID(ctx); !ok {
		return nil
	}

	fileID, err := getSimpleText(a.reader, "Enter file id", os.Stdout)
	if err != nil {
		return err
	}
	recipientID, err := getSimpleText(a.reader, "Enter recipient user id", os.Stdout)
	if err != nil {
		return err
	}

	share, err := a.fileService.ShareFile(ctx, fileID, recipientID)
	if err != nil {
		log.Println(err.Error())
		return nil
	}
	fmt.Printf("Shared %s with %s\n", share.File.FileName, share.RecipientName)
	return nil
}

// Inbox lists files other users shared with the current one.
func (a *App) Inbox(ctx context.Context) error {
	if _, ok := a.currentUserID(ctx); !ok {
		return nil
	}

	shares, err := a.fileService.ListInbox(ctx)
	if err != nil {
		log.Println(err.Error())
		return nil
	}
	if len(shares) == 0 {
		fmt.Println("Inbox is empty")
		return nil
	}
	for _, s := range shares {
		marker := " "
		if !s.IsRead {
			marker = "*"
		}
		fmt.Printf("%s [%s] %s from %s (%s)\n", marker, s.ID, s.File.FileName, s.SenderName, formatSize(s.File.FileSize))
	}
	return nil
}

// Read marks a shared file as viewed.
func (a *App) Read(ctx context.Context) error {
	if _, ok := a.currentUserID(ctx); !ok {
		return nil
	}

	id, err := getSimpleText(a.reader, "Enter share id", os.Stdout)
	if err != nil {
		return err
	}
	a.fileService.MarkShareRead(ctx, id)
	fmt.Println("Done")
	return nil
}

// Delete removes one of the user's own files.
func (a *App) Delete(ctx context.Context) error {
	if _, ok := a.currentUserID(ctx); !ok {
		return nil
	}

	id, err := getSimpleText(a.reader, "Enter file id", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.fileService.DeleteFile(ctx, id); err != nil {
		log.Println(err.Error())
		return nil
	}
	fmt.Println("Deleted")
	return nil
}

func printFile(f models.FileRecord) {
	fmt.Printf("[%s] %s  %s  %s\n", f.ID, f.FileName, f.FileType, formatSize(f.FileSize))
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
