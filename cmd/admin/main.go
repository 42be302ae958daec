// The admin console is the staff view of the reservation list: filtering,
// grouping, status changes with confirmation, ticket scanning and the sales
// report, all against the reservation API.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yoshimitsut/christmascake-beurre-mou/internal/config"
	"github.com/yoshimitsut/christmascake-beurre-mou/internal/format"
	"github.com/yoshimitsut/christmascake-beurre-mou/internal/models"
	"github.com/yoshimitsut/christmascake-beurre-mou/internal/services"
	"github.com/yoshimitsut/christmascake-beurre-mou/pkg/orderstore"
)

func main() {
	cfg := config.Load()
	reader := bufio.NewReader(os.Stdin)
	ctx := context.Background()

	client := orderstore.NewClient(cfg.OrderAPIURL, "")

	fmt.Print("パスワード: ")
	password := readLine(reader)
	if err := client.Login(ctx, password); err != nil {
		log.Fatal("Login failed: ", err)
	}

	notify := func(message string) { fmt.Println(message) }
	confirm := func(prompt services.StatusChangePrompt) bool {
		fmt.Println(prompt.String())
		fmt.Print("(y/n): ")
		return strings.EqualFold(readLine(reader), "y")
	}

	snap := services.NewSnapshot()
	listService := services.NewListService(client, snap, notify, time.Duration(cfg.SearchDebounceMS)*time.Millisecond)
	defer listService.Close()
	statusService := services.NewStatusService(client, snap, confirm, notify)
	scanService := services.NewScanService(snap)

	if err := listService.Load(ctx); err != nil {
		log.Fatal("Failed to load orders: ", err)
	}

	fmt.Println("commands: list, bydate, filter <status|cake|date|hour> <value>, search <term>, status <id> <a-e>, scan, sales, reload, quit")
	for {
		fmt.Print("> ")
		line := readLine(reader)
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "list":
			printGroups(listService.Display(services.SingleList))
		case "bydate":
			printGroups(listService.Display(services.GroupByDate))
		case "filter":
			runFilter(listService, args[1:])
		case "search":
			listService.SetSearch(strings.TrimSpace(strings.TrimPrefix(line, "search")))
			fmt.Println("searching...")
		case "status":
			runStatusChange(ctx, statusService, args[1:])
		case "scan":
			runScan(ctx, scanService, reader)
		case "sales":
			printSalesReport(services.BuildSalesReport(snap.Orders()))
		case "reload":
			if err := listService.Load(ctx); err != nil {
				fmt.Println("読み込みに失敗しました:", err)
			}
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command:", args[0])
		}
	}
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func runFilter(listService *services.ListService, args []string) {
	if len(args) < 1 {
		fmt.Println("usage: filter <status|cake|date|hour> <value|all>")
		return
	}
	value := services.FilterAll
	if len(args) > 1 {
		value = strings.Join(args[1:], " ")
	}

	switch args[0] {
	case "status":
		listService.SetStatusFilter(value)
	case "cake":
		listService.SetCakeFilter(value)
		fmt.Println("cakes:", strings.Join(listService.CakeOptions(), ", "))
	case "date":
		listService.SetDateFilter(value)
		fmt.Println("dates:", strings.Join(listService.DateOptions(), ", "))
	case "hour":
		listService.SetHourFilter(value)
		fmt.Println("hours:", strings.Join(listService.HourOptions(), ", "))
	default:
		fmt.Println("unknown filter:", args[0])
	}
}

func runStatusChange(ctx context.Context, statusService services.StatusService, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: status <id> <a-e>")
		return
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Println("invalid order id:", args[0])
		return
	}

	err = statusService.ChangeStatus(ctx, uint(id), models.Status(args[1]))
	switch {
	case err == services.ErrNotFound:
		fmt.Println("注文が見つかりません。")
	case err != nil:
		fmt.Println("error:", err)
	}
}

// stdinScanner stands in for the camera: each line typed is one decoded
// token.
type stdinScanner struct {
	reader *bufio.Reader
}

func (s *stdinScanner) Decode(ctx context.Context) (string, error) {
	fmt.Print("受付番号 (empty to cancel): ")
	token := readLine(s.reader)
	if token == "" {
		return "", context.Canceled
	}
	return token, nil
}

func (s *stdinScanner) Close() error { return nil }

func runScan(ctx context.Context, scanService *services.ScanService, reader *bufio.Reader) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	scanner := &stdinScanner{reader: reader}
	onNotFound := func(token string) {
		fmt.Println("注文が見つかりません。")
	}

	order, err := scanService.Run(ctx, &cancelOnEmpty{scanner, cancel}, onNotFound)
	if err != nil {
		return
	}

	fmt.Printf("受付番号: %s\nお名前: %s\n電話番号: %s\n受取日: %s - %s\n",
		order.DisplayID(), order.CustomerName(), order.Tel, format.DateJP(order.Date), order.PickupHour)
	for _, line := range order.Cakes {
		fmt.Printf("  %s %s - %s x%d\n", line.Name, line.Size, format.Yen(line.Price), line.Amount)
	}
}

// cancelOnEmpty stops the capture session when the operator submits an empty
// token.
type cancelOnEmpty struct {
	inner  services.Scanner
	cancel context.CancelFunc
}

func (c *cancelOnEmpty) Decode(ctx context.Context) (string, error) {
	token, err := c.inner.Decode(ctx)
	if err != nil {
		c.cancel()
	}
	return token, err
}

func (c *cancelOnEmpty) Close() error { return c.inner.Close() }

func printGroups(groups []services.Group) {
	for _, group := range groups {
		fmt.Printf("== %s ==\n", group.Title)
		for _, order := range group.Orders {
			fmt.Printf("%s  %-10s %-20s %s %s  %s\n",
				order.DisplayID(), order.Status.Label(), order.CustomerName(),
				format.DateJP(order.Date), order.PickupHour, format.Yen(order.Total()))
		}
	}
}

func printSalesReport(report *services.SalesReport) {
	fmt.Println("== 日付毎の合計 ==")
	for _, date := range report.Dates {
		fmt.Printf("%s: %d\n", format.DateJP(date), report.DayTotal(date))
	}
	fmt.Printf("合計: %d\n", report.GrandTotal())

	for _, cake := range report.CakeNames() {
		fmt.Printf("== %s ==\n", cake)
		for _, size := range report.SizesOf(cake) {
			bucket := report.Summary[cake][size]
			fmt.Printf("%s (在庫: %d / %d)", size, bucket.Stock, bucket.InitialStock())
			for _, date := range report.Dates {
				fmt.Printf("  %s: %d", date, bucket.Days[date])
			}
			fmt.Printf("  合計: %d\n", bucket.Total())
		}
	}

	fmt.Println("== 支払い状況 ==")
	for _, status := range models.AllStatuses {
		fmt.Printf("%-10s 件数: %d  金額: %s\n",
			status.Label(), report.StatusCountTotal(status), format.Yen(report.StatusValueTotal(status)))
	}
	fmt.Printf("合計件数: %d  合計金額: %s\n", report.OrderCountTotal(), format.Yen(report.ValueGrandTotal()))
}
