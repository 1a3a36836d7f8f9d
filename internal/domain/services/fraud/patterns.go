package fraud

import (
	"fmt"
	"regexp"

	"callguard-lab/internal/domain/models"
)

// CategoryRule is one entry in the static detection table. Patterns are
// matched against normalized (NFKC, lowercased) text, so the expressions
// below are written in lowercase and never need (?i).
type CategoryRule struct {
	Key     models.CategoryKey
	Pattern *regexp.Regexp
	Floor   models.Severity
	Display string
	Advice  []string
}

// ActionRule detects a concrete request made by the caller. Actions feed
// scam-type fallback classification only, never the risk floor.
type ActionRule struct {
	Key     models.ActionKey
	Pattern *regexp.Regexp
}

// categoryRules is ordered: the order here is the iteration order for
// matching and the order categories are reported in. Keys must be unique.
var categoryRules = []CategoryRule{
	{
		Key:     models.CategoryOTPHarvest,
		Pattern: regexp.MustCompile(`(otp|o\W*t\W*p|一次性(密碼|驗證碼|验证码)|動態密碼|簡訊(驗證)?碼|驗證碼|验证码)`),
		Floor:   models.SeverityHigh,
		Display: "騙取簡訊驗證碼",
		Advice:  []string{"切勿向任何人提供簡訊驗證碼或一次性密碼"},
	},
	{
		Key:     models.CategoryATMOperation,
		Pattern: regexp.MustCompile(`(atm|自動?櫃(員)?機|提款機|讀卡機|读卡机|臨?櫃?轉帳|跨行转?帳|跨行转账|到 ?atm ?操作)`),
		Floor:   models.SeverityHigh,
		Display: "ATM 操作詐騙",
		Advice:  []string{"ATM 沒有解除分期或退款功能，切勿依指示操作"},
	},
	{
		Key:     models.CategoryRemoteControl,
		Pattern: regexp.MustCompile(`(遠端(協助|連線)|teamviewer|anydesk|remote|螢幕共享|安裝.*(控制|協助).*app|远端(协助|连线))`),
		Floor:   models.SeverityHigh,
		Display: "遠端控制軟體",
		Advice:  []string{"請勿安裝遠端控制軟體，並立即中斷已授權的連線"},
	},
	{
		Key:     models.CategorySupervisorAccount,
		Pattern: regexp.MustCompile(`(監管(帳(號|戶)|專戶)|监管(账(号|户)|专户)|安全帳戶|安全账户|安全專戶|安全专户|指定帳戶|指定账户|黑名單帳戶|黑名单账户)`),
		Floor:   models.SeverityHigh,
		Display: "監管帳戶／安全帳戶",
		Advice:  []string{"政府與銀行不會要求將資金轉入監管或安全帳戶"},
	},
	{
		Key:     models.CategoryMoneyLaundering,
		Pattern: regexp.MustCompile(`(洗錢|洗钱|人頭帳戶|人头账户|涉嫌.*(洗錢|洗钱|犯罪)|(帳戶|账户).*涉案)`),
		Floor:   models.SeverityHigh,
		Display: "涉嫌洗錢恐嚇",
		Advice:  []string{"檢警不會以電話要求匯款或監管資金，請撥打 165 查證"},
	},
	{
		Key:     models.CategoryFreezeThreat,
		Pattern: regexp.MustCompile(`((資金|账户|帳戶).*(轉移|移轉|转移).*(保全|凍結|冻结)|凍結保全|冻结保全|臨時轉移|临时转移|臨時.*轉存|临时.*转存)`),
		Floor:   models.SeverityHigh,
		Display: "帳戶凍結威脅",
		Advice:  []string{"帳戶凍結請親自向銀行臨櫃查證，勿依來電指示操作"},
	},
	{
		Key:     models.CategoryFundsTransfer,
		Pattern: regexp.MustCompile(`((匯|汇)款|(轉|转)(帳|账|賬)|匯入指定|转入指定|轉入指定|把錢(轉|匯)|把钱(转|汇))`),
		Floor:   models.SeverityMedium,
		Display: "要求匯款轉帳",
		Advice:  []string{"匯款前請先透過官方管道與本人再次確認"},
	},
	{
		Key:     models.CategoryPaymentPersonalInfo,
		Pattern: regexp.MustCompile(`((提供|告知|輸入|输入).*(身分證|身份证|卡號|卡号|帳號|账号|密碼|密码)|信用卡.*(號碼|号码|背面)|個人資料|个人资料)`),
		Floor:   models.SeverityMedium,
		Display: "要求個資或付款資訊",
		Advice:  []string{"請勿在電話中提供身分證字號、卡號或密碼"},
	},
	{
		Key:     models.CategoryPoliceImpersonation,
		Pattern: regexp.MustCompile(`(警察|刑事局|檢察官|检察官|地檢署|地检署|警官|偵查隊|侦查队|傳票|传票|通緝|通缉|警察局|派出所)`),
		Floor:   models.SeverityMedium,
		Display: "假冒警察檢察官",
		Advice:  []string{"接獲自稱檢警來電，請掛斷後改撥 110 或 165 查證"},
	},
	{
		Key:     models.CategoryCustomsParcel,
		Pattern: regexp.MustCompile(`(關務|海關|海关|清關|清关|關稅|关税|違禁品|限制品|包裹(暫扣|逾期)|關務專員|关务专员)`),
		Floor:   models.SeverityMedium,
		Display: "海關包裹詐騙",
		Advice:  []string{"包裹問題請直接向物流或海關官方客服查詢"},
	},
	{
		Key:     models.CategoryInvestmentGroup,
		Pattern: regexp.MustCompile(`(投資(群|群組|老師)|投资(群|群组|老师)|飆股|飙股|穩賺|稳赚|高報酬|高回报|帶單|带单|虛擬貨幣.*(投資|投资))`),
		Floor:   models.SeverityMedium,
		Display: "投資群組詐騙",
		Advice:  []string{"標榜穩賺不賠的投資群組多為詐騙，請勿入金"},
	},
	{
		Key:     models.CategoryRomanceMoney,
		Pattern: regexp.MustCompile(`((男|女)朋友.*(匯款|汇款|借錢|借钱)|交友.*(投資|投资|匯款|汇款)|網戀|网恋|見面費|见面费)`),
		Floor:   models.SeverityMedium,
		Display: "感情交友金錢詐騙",
		Advice:  []string{"未曾見面的網友開口借錢或邀請投資時請提高警覺"},
	},
	{
		Key:     models.CategoryRefundAnomaly,
		Pattern: regexp.MustCompile(`(退款|退費|退费|訂單(異常|錯誤)|订单(异常|错误)|重複扣款|重复扣款|誤(訂|刷)|误(订|刷)|升級.*(會員|vip)|解除.*(扣款|訂閱|订阅))`),
		Floor:   models.SeverityMedium,
		Display: "退款訂單異常",
		Advice:  []string{"退款不需操作 ATM 或提供驗證碼，請向原購買平台確認"},
	},
	{
		Key:     models.CategoryLineRedirect,
		Pattern: regexp.MustCompile(`(加(入|到)?(官方)?\s*line|加賴|line\s*id|加入.*line.*客服)`),
		Floor:   models.SeverityMedium,
		Display: "導流至通訊軟體",
	},
	{
		Key:     models.CategoryQRScan,
		Pattern: regexp.MustCompile(`(qr|二維碼|二维码|條碼|掃碼|掃描.*(驗證|支付|登入))`),
		Floor:   models.SeverityMedium,
		Display: "掃描 QR Code",
	},
	{
		Key:     models.CategoryUrgencySecrecy,
		Pattern: regexp.MustCompile(`(不要掛斷|不要挂断|保持通話|保持通话|限時|逾期|立即(處理|辦理)|立刻|轉接專員|转接专员|身分(再次)?驗證|身份(再次)?验证|一級保密|一级保密|不要告訴任何人|不要告诉任何人)`),
		Floor:   models.SeverityMedium,
		Display: "製造緊迫與保密",
	},
	{
		Key:     models.CategoryInstallApp,
		Pattern: regexp.MustCompile(`(安裝(應用|app)|安装(应用|app)|下載.*app|下载.*app|授權.*存取)`),
		Floor:   models.SeverityMedium,
		Display: "要求安裝應用程式",
	},
	{
		Key:     models.CategorySmallTest,
		Pattern: regexp.MustCompile(`(小額測試|小额测试|測試轉帳|测试转账)`),
		Floor:   models.SeverityMedium,
		Display: "小額測試轉帳",
		Advice:  []string{"任何名目的測試轉帳都不要執行"},
	},
	{
		Key:     models.CategoryUnfreezeInstallments,
		Pattern: regexp.MustCompile(`(解除分期|分期(設定|付款).*(取消|解除)|解凍|解冻|凍結|冻结)`),
		Floor:   models.SeverityMedium,
		Display: "解除分期付款",
	},
}

var actionRules = []ActionRule{
	{
		Key:     models.ActionProvideOTP,
		Pattern: regexp.MustCompile(`(提供|告知).*(otp|驗證碼|验证码|簡訊碼|一次性密碼)`),
	},
	{
		Key:     models.ActionOperateATM,
		Pattern: regexp.MustCompile(`((到|前往).*(atm|自動?櫃(員)?機|提款機|讀卡機|读卡机)|解除.*分期|跨行转?帳|跨行转账)`),
	},
	{
		Key:     models.ActionAddLine,
		Pattern: regexp.MustCompile(`(加(入|到)?.*line|加賴|加入.*line.*客服)`),
	},
	{
		Key:     models.ActionTransferFunds,
		Pattern: regexp.MustCompile(`((匯|转)款.*給|匯入指定(帳戶|账户)|轉入指定(帳戶|账户))`),
	},
	{
		Key:     models.ActionInstallRemote,
		Pattern: regexp.MustCompile(`(teamviewer|anydesk|遠端(協助|安裝|控制)|远端(协助|安装|控制))`),
	},
	{
		Key:     models.ActionSafeAccount,
		Pattern: regexp.MustCompile(`(轉(移|入).*(安全(專|专)戶|監管|监管|專戶|专户|安全(帳|账)戶)|資金.*(保全|凍結|冻结).*(轉移|移轉|转移))`),
	},
}

func init() {
	if err := validateRules(categoryRules, actionRules); err != nil {
		panic(err)
	}
}

// validateRules rejects a malformed table at startup instead of letting
// a bad entry silently weaken detection.
func validateRules(cats []CategoryRule, acts []ActionRule) error {
	seen := make(map[models.CategoryKey]bool, len(cats))
	for _, r := range cats {
		if r.Key == "" {
			return fmt.Errorf("category rule with empty key")
		}
		if seen[r.Key] {
			return fmt.Errorf("duplicate category rule %q", r.Key)
		}
		seen[r.Key] = true
		if r.Pattern == nil {
			return fmt.Errorf("category rule %q has no pattern", r.Key)
		}
		if !r.Floor.Valid() {
			return fmt.Errorf("category rule %q has invalid floor %q", r.Key, r.Floor)
		}
		if r.Display == "" {
			return fmt.Errorf("category rule %q has no display name", r.Key)
		}
	}
	seenActs := make(map[models.ActionKey]bool, len(acts))
	for _, r := range acts {
		if r.Key == "" {
			return fmt.Errorf("action rule with empty key")
		}
		if seenActs[r.Key] {
			return fmt.Errorf("duplicate action rule %q", r.Key)
		}
		seenActs[r.Key] = true
		if r.Pattern == nil {
			return fmt.Errorf("action rule %q has no pattern", r.Key)
		}
	}
	return nil
}

// ruleFor returns the configured rule for a category key, if any.
func ruleFor(key models.CategoryKey) (CategoryRule, bool) {
	for _, r := range categoryRules {
		if r.Key == key {
			return r, true
		}
	}
	return CategoryRule{}, false
}

// floorFor returns the configured floor for a category. Unknown
// categories contribute the lowest tier rather than failing.
func floorFor(key models.CategoryKey) models.Severity {
	if r, ok := ruleFor(key); ok {
		return r.Floor
	}
	return models.SeverityLow
}

// displayFor returns the human-readable label for a category key.
func displayFor(key models.CategoryKey) (string, bool) {
	if r, ok := ruleFor(key); ok {
		return r.Display, true
	}
	return "", false
}

// adviceFor returns curated advice for a category key, or nil.
func adviceFor(key models.CategoryKey) []string {
	if r, ok := ruleFor(key); ok {
		return r.Advice
	}
	return nil
}

// CategoryCatalog returns a snapshot of the configured category table
// for read-only exposure (display names and floors, not the patterns).
func CategoryCatalog() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(categoryRules))
	for _, r := range categoryRules {
		out = append(out, CatalogEntry{
			Key:     r.Key,
			Display: r.Display,
			Floor:   r.Floor,
		})
	}
	return out
}

// CatalogEntry is the externally visible shape of one category rule.
type CatalogEntry struct {
	Key     models.CategoryKey `json:"key"`
	Display string             `json:"display"`
	Floor   models.Severity    `json:"floor"`
}

// ActionCatalog returns the configured action keys in table order.
func ActionCatalog() []models.ActionKey {
	out := make([]models.ActionKey, 0, len(actionRules))
	for _, r := range actionRules {
		out = append(out, r.Key)
	}
	return out
}
