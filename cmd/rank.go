package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/araddon/dateparse"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"polithane/pkg/hitfeed"
	"polithane/pkg/post"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a JSON export of posts offline and print the Hit selection",
	RunE:  runRank,
}

func init() {
	rankCmd.Flags().String("file", "", "JSON file with an array of posts (- for stdin)")
	rankCmd.Flags().String("preset", "home", "ranking preset: home or hit")
	rankCmd.Flags().Int("limit", 0, "override the preset limit")
	rankCmd.Flags().String("now", "", "reference time for recency (default: current time)")
	_ = rankCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	file, _ := cmd.Flags().GetString("file")
	presetName, _ := cmd.Flags().GetString("preset")
	limit, _ := cmd.Flags().GetInt("limit")
	nowRaw, _ := cmd.Flags().GetString("now")

	cfg, ok := hitfeed.Preset(presetName)
	if !ok {
		return fmt.Errorf("rank: unknown preset %q", presetName)
	}
	if limit > 0 {
		cfg = cfg.WithLimit(limit)
	}

	now := time.Now()
	if nowRaw != "" {
		t, err := dateparse.ParseIn(nowRaw, time.UTC)
		if err != nil {
			return fmt.Errorf("rank: bad --now: %w", err)
		}
		now = t
	}

	var in io.Reader = cmd.InOrStdin()
	if file != "-" {
		fh, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("rank: %w", err)
		}
		defer fh.Close()
		in = fh
	}

	posts, err := readPosts(in)
	if err != nil {
		return err
	}
	return printRanking(cmd.OutOrStdout(), posts, cfg, now)
}

func readPosts(r io.Reader) ([]*post.Post, error) {
	posts := []*post.Post{}
	if err := json.NewDecoder(r).Decode(&posts); err != nil {
		return nil, fmt.Errorf("rank: can't decode posts: %w", err)
	}
	return posts, nil
}

func printRanking(w io.Writer, posts []*post.Post, cfg hitfeed.Config, now time.Time) error {
	scores := make(map[*post.Post]float64, len(posts))
	for _, s := range hitfeed.ScoreAll(posts, now) {
		scores[s.Post] = s.Score
	}
	ranked := hitfeed.Rank(posts, cfg, now)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSCORE\tAGE\tTYPE\tUSER\tROLE\tVIEWS\tID")
	for i, p := range ranked {
		age := "-"
		if !p.CreatedAt.IsZero() {
			age = humanize.RelTime(p.CreatedAt, now, "ago", "from now")
		}
		fmt.Fprintf(tw, "%d\t%.2f\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, scores[p], age, p.ContentType, p.UserId, p.UserType(), humanize.Comma(p.ViewCount), p.Id)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%s of %s posts selected (limit %d, %d per user, role cap %d)\n",
		humanize.Comma(int64(len(ranked))), humanize.Comma(int64(len(posts))), cfg.Limit, cfg.PerUserCap, hitfeed.RoleCap(cfg))
	return err
}
