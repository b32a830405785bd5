package app

import (
	"fmt"
	"strconv"

	"github.com/bookdeck/bookdeck/internal/engine"
	"github.com/spf13/cobra"
)

func newReviewCmd() *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "review <book-id> <rating>",
		Short: "Submit a star review for one book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			rating, err := strconv.Atoi(args[1])
			if err != nil || rating < 1 || rating > engine.MaxRating {
				return fmt.Errorf("rating must be between 1 and %d", engine.MaxRating)
			}

			review := engine.Review{Rating: rating, Comment: comment}
			if err := store.AddReview(cmd.Context(), id, review); err != nil {
				return fmt.Errorf("submitting review: %w", err)
			}
			ok("reviewed %s: %d★", id, rating)
			return nil
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", "Optional review comment")
	return cmd
}
